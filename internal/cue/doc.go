// Package cue routes cues to preview listeners and output protocols.
//
// Two entry points feed it:
//
//   - Router handles ad-hoc triggers posted by operators and editors. It
//     broadcasts the raw payload to preview listeners, applies the small
//     fixed protocol mappings (explicit OSC, lighting.level expansion) and
//     then hands the payload to the cue engine: an upstream HTTP service
//     when one is configured, otherwise the in-process priority Queue.
//   - Dispatcher handles events fired by the playback scheduler. Lighting
//     events go to sACN, OSC events to the OSC adapter and everything else
//     (media, previz) to MQTT for the devices that subscribe to it.
//
// Neither path lets an adapter failure escape: outcomes come back as
// bridges.Result values and are logged and recorded as telemetry.
package cue
