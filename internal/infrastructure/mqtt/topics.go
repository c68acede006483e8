package mqtt

import "fmt"

// Topic roots. Everything Vixio publishes or listens to lives under
// "vixio/".
const (
	// TopicPrefix is the base for all Vixio topics.
	TopicPrefix = "vixio"

	// TopicPrefixCue is the base for cue fan-out to media and previz
	// clients.
	TopicPrefixCue = "vixio/cue"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "vixio/system"
)

// Topics provides builders for Vixio MQTT topics:
//
//	topics := mqtt.Topics{}
//	topics.Cue("media.play")   // "vixio/cue/media.play"
//	topics.Playhead()          // "vixio/playhead"
type Topics struct{}

// Cue returns the topic a fired cue of the given type is published on.
//
// Example: vixio/cue/media.play
func (Topics) Cue(cueType string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixCue, cueType)
}

// Playhead returns the retained playhead position topic.
//
// Example: vixio/playhead
func (Topics) Playhead() string {
	return TopicPrefix + "/playhead"
}

// Playback returns the retained transport status topic.
//
// Example: vixio/playback
func (Topics) Playback() string {
	return TopicPrefix + "/playback"
}

// TransportCommand returns the topic remote controllers publish
// play/pause/reset/seek commands on.
//
// Example: vixio/transport/command
func (Topics) TransportCommand() string {
	return TopicPrefix + "/transport/command"
}

// Timeline returns the topic announcing a newly published timeline.
//
// Example: vixio/timeline/published
func (Topics) Timeline() string {
	return TopicPrefix + "/timeline/published"
}

// SystemStatus returns the system status topic (also the LWT topic).
//
// Example: vixio/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllCues returns a pattern matching every cue topic.
//
// Pattern: vixio/cue/+
func (Topics) AllCues() string {
	return fmt.Sprintf("%s/+", TopicPrefixCue)
}

// AllTopics returns a pattern matching all Vixio topics.
//
// Pattern: vixio/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
