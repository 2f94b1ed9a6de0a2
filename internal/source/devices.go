// SPDX-License-Identifier: MIT
package source

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Initialize starts the PortAudio subsystem. Must be called once before any
// microphone source is created, paired with Terminate on shutdown.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate shuts down the PortAudio subsystem.
func Terminate() error {
	return portaudio.Terminate()
}

// InputDevice resolves a PortAudio device index to a device. An index of -1
// selects the system default input device.
func InputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID == -1 {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("audio device index %d out of range (0-%d)", deviceID, len(devices)-1)
	}
	device := devices[deviceID]
	if device.MaxInputChannels < 1 {
		return nil, fmt.Errorf("audio device %d ('%s') has no input channels", deviceID, device.Name)
	}
	return device, nil
}

// ListInputDevices returns a printable description of every device with
// input channels, for the CLI "devices" command.
func ListInputDevices() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	var out []string
	for i, device := range devices {
		if device.MaxInputChannels < 1 {
			continue
		}
		out = append(out, fmt.Sprintf("[%d] %s (%d ch, %.0f Hz)",
			i, device.Name, device.MaxInputChannels, device.DefaultSampleRate))
	}
	return out, nil
}
