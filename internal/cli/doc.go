// Package cli implements the luxctl command line.
//
// Commands:
//
//	luxctl list                                   print all actions by scope
//	luxctl run                                    read the sensor, run matching actions
//	luxctl add -l LEVEL -e COMMAND [-s SCOPE] [-t DELAY]
//	luxctl delete [-s SCOPE] [-l LEVEL]           delete one action or a whole scope
//	luxctl rename -s SCOPE --to NAME
//	luxctl watch [--schedule SPEC]                repeat run until interrupted
//
// The root command's pre-run hook loads configuration and opens the action
// store; Execute closes it after the command returns, whatever the outcome.
// Exit statuses are listed with the Exit* constants.
package cli
