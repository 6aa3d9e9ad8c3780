//go:build darwin && cgo

// Package coreaudio implements audiodev.System with the macOS CoreAudio
// AudioObject property API.
package coreaudio

/*
#cgo LDFLAGS: -framework CoreAudio -framework CoreFoundation
#include <CoreAudio/CoreAudio.h>
#include <CoreFoundation/CoreFoundation.h>

// kAudioObjectPropertyElementMain is only declared from macOS 12 on.
#define MM_ELEMENT_MAIN 0

static AudioObjectPropertyAddress mm_addr(AudioObjectPropertySelector sel, AudioObjectPropertyScope scope) {
	AudioObjectPropertyAddress addr = { sel, scope, MM_ELEMENT_MAIN };
	return addr;
}

static OSStatus mm_device_count(UInt32 *count) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioHardwarePropertyDevices, kAudioObjectPropertyScopeGlobal);
	UInt32 size = 0;
	OSStatus st = AudioObjectGetPropertyDataSize(kAudioObjectSystemObject, &addr, 0, NULL, &size);
	*count = size / sizeof(AudioObjectID);
	return st;
}

static OSStatus mm_device_ids(AudioObjectID *ids, UInt32 *count) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioHardwarePropertyDevices, kAudioObjectPropertyScopeGlobal);
	UInt32 size = *count * sizeof(AudioObjectID);
	OSStatus st = AudioObjectGetPropertyData(kAudioObjectSystemObject, &addr, 0, NULL, &size, ids);
	*count = size / sizeof(AudioObjectID);
	return st;
}

static OSStatus mm_input_streams_size(AudioObjectID id, UInt32 *size) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioDevicePropertyStreams, kAudioDevicePropertyScopeInput);
	*size = 0;
	return AudioObjectGetPropertyDataSize(id, &addr, 0, NULL, size);
}

static OSStatus mm_device_name(AudioObjectID id, char *buf, CFIndex buflen) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioObjectPropertyName, kAudioObjectPropertyScopeGlobal);
	CFStringRef name = NULL;
	UInt32 size = sizeof(CFStringRef);
	OSStatus st = AudioObjectGetPropertyData(id, &addr, 0, NULL, &size, &name);
	if (st != noErr) {
		return st;
	}
	if (name == NULL) {
		buf[0] = 0;
		return noErr;
	}
	Boolean ok = CFStringGetCString(name, buf, buflen, kCFStringEncodingUTF8);
	CFRelease(name);
	if (!ok) {
		return kAudioHardwareUnspecifiedError;
	}
	return noErr;
}

static OSStatus mm_get_default(AudioObjectPropertySelector sel, AudioObjectID *id) {
	AudioObjectPropertyAddress addr = mm_addr(sel, kAudioObjectPropertyScopeGlobal);
	UInt32 size = sizeof(AudioObjectID);
	return AudioObjectGetPropertyData(kAudioObjectSystemObject, &addr, 0, NULL, &size, id);
}

static OSStatus mm_set_default(AudioObjectPropertySelector sel, AudioObjectID id) {
	AudioObjectPropertyAddress addr = mm_addr(sel, kAudioObjectPropertyScopeGlobal);
	return AudioObjectSetPropertyData(kAudioObjectSystemObject, &addr, 0, NULL, sizeof(AudioObjectID), &id);
}

static OSStatus mm_get_pan(AudioObjectID id, Float32 *pan) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioDevicePropertyStereoPan, kAudioDevicePropertyScopeOutput);
	UInt32 size = sizeof(Float32);
	return AudioObjectGetPropertyData(id, &addr, 0, NULL, &size, pan);
}

static OSStatus mm_set_pan(AudioObjectID id, Float32 pan) {
	AudioObjectPropertyAddress addr = mm_addr(kAudioDevicePropertyStereoPan, kAudioDevicePropertyScopeOutput);
	return AudioObjectSetPropertyData(id, &addr, 0, NULL, sizeof(Float32), &pan);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/Danondso/menumic/internal/audiodev"
)

const maxNameLen = 512

// StatusError is a non-zero OSStatus returned by CoreAudio.
type StatusError struct {
	Op     string
	Status int32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coreaudio %s: OSStatus %d", e.Op, e.Status)
}

func check(op string, st C.OSStatus) error {
	if st != 0 {
		return &StatusError{Op: op, Status: int32(st)}
	}
	return nil
}

// System talks to the CoreAudio hardware object. It holds no state.
type System struct{}

// New returns a CoreAudio backed System.
func New() *System {
	return &System{}
}

func (System) DeviceIDs() ([]audiodev.DeviceID, error) {
	var count C.UInt32
	if err := check("device count", C.mm_device_count(&count)); err != nil {
		return nil, err
	}
	if count == 0 {
		return []audiodev.DeviceID{}, nil
	}
	raw := make([]C.AudioObjectID, count)
	if err := check("device list", C.mm_device_ids(&raw[0], &count)); err != nil {
		return nil, err
	}
	// The device list can shrink between the two calls.
	if int(count) < len(raw) {
		raw = raw[:count]
	}
	ids := make([]audiodev.DeviceID, len(raw))
	for i, id := range raw {
		ids[i] = audiodev.DeviceID(id)
	}
	return ids, nil
}

func (System) HasInput(id audiodev.DeviceID) (bool, error) {
	var size C.UInt32
	if err := check("input streams", C.mm_input_streams_size(C.AudioObjectID(id), &size)); err != nil {
		return false, err
	}
	return size > 0, nil
}

func (System) DeviceName(id audiodev.DeviceID) (string, error) {
	buf := make([]byte, maxNameLen)
	st := C.mm_device_name(C.AudioObjectID(id), (*C.char)(unsafe.Pointer(&buf[0])), C.CFIndex(len(buf)))
	if err := check("device name", st); err != nil {
		return "", err
	}
	return C.GoString((*C.char)(unsafe.Pointer(&buf[0]))), nil
}

func (System) DefaultInput() (audiodev.DeviceID, error) {
	var id C.AudioObjectID
	if err := check("default input", C.mm_get_default(C.kAudioHardwarePropertyDefaultInputDevice, &id)); err != nil {
		return 0, err
	}
	return audiodev.DeviceID(id), nil
}

func (System) SetDefaultInput(id audiodev.DeviceID) error {
	return check("set default input", C.mm_set_default(C.kAudioHardwarePropertyDefaultInputDevice, C.AudioObjectID(id)))
}

func (System) DefaultOutput() (audiodev.DeviceID, error) {
	var id C.AudioObjectID
	if err := check("default output", C.mm_get_default(C.kAudioHardwarePropertyDefaultOutputDevice, &id)); err != nil {
		return 0, err
	}
	return audiodev.DeviceID(id), nil
}

func (System) StereoPan(id audiodev.DeviceID) (float32, error) {
	var pan C.Float32
	if err := check("stereo pan", C.mm_get_pan(C.AudioObjectID(id), &pan)); err != nil {
		return 0, err
	}
	return float32(pan), nil
}

func (System) SetStereoPan(id audiodev.DeviceID, pan float32) error {
	return check("set stereo pan", C.mm_set_pan(C.AudioObjectID(id), C.Float32(pan)))
}
