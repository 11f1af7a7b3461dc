package mqtt

import (
	"fmt"
	"strings"
)

// TopicRoot is the first level of every luxctl topic.
const TopicRoot = "luxctl"

// Topics builds the topics of one site.
//
//	mqtt.NewTopics("greenhouse").Illuminance() // "luxctl/greenhouse/illuminance"
type Topics struct {
	site string
}

// NewTopics returns the topic builder for site.
func NewTopics(site string) Topics {
	return Topics{site: segment(site)}
}

// Illuminance is the retained topic carrying the latest reading.
func (t Topics) Illuminance() string {
	return fmt.Sprintf("%s/%s/illuminance", TopicRoot, t.site)
}

// Action is the topic on which fired actions of scope are announced.
// Characters with a meaning in topic names are replaced, so every scope
// maps to exactly one level: "porch/#" becomes "porch__".
func (t Topics) Action(scope string) string {
	return fmt.Sprintf("%s/%s/action/%s", TopicRoot, t.site, segment(scope))
}

// Status is the retained online/offline topic, also used as the will.
func (t Topics) Status() string {
	return fmt.Sprintf("%s/%s/status", TopicRoot, t.site)
}

// CommandRun is the topic that triggers an immediate pass in watch mode.
func (t Topics) CommandRun() string {
	return fmt.Sprintf("%s/%s/command/run", TopicRoot, t.site)
}

var segmentReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_", "\x00", "_")

// segment makes name safe as a single topic level.
func segment(name string) string {
	if name == "" {
		return "_"
	}
	return segmentReplacer.Replace(name)
}
