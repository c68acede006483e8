// Package mqtt connects Vixio Core to the show's MQTT broker.
//
// The broker carries everything that is not a lighting or OSC frame:
//
//	vixio/cue/<type>          fired media and previz cues
//	vixio/playhead            retained playhead position
//	vixio/playback            retained transport status
//	vixio/transport/command   remote play/pause/reset/seek
//	vixio/system/status       online/offline status and LWT
//
// Client wraps paho.mqtt.golang with auto-reconnect, subscription restore
// after reconnect and panic-safe handlers.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.TransportCommand(), 1,
//	    func(topic string, payload []byte) error {
//	        return handle(payload)
//	    })
package mqtt
