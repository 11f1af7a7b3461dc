package sensor

// Sysctl reads the BH1750 driver's sysctl node.
type Sysctl struct {
	oid string
}

// NewSysctl creates a Sysctl sensor for oid, e.g. "dev.bh1750.0.illuminance".
func NewSysctl(oid string) *Sysctl {
	return &Sysctl{oid: oid}
}
