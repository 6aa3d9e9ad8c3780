// Package pactl implements audiodev.System on Linux by driving the pactl
// command line tool, which works against both PulseAudio and PipeWire.
//
// Endpoints are PulseAudio sources identified by their index. Monitor sources
// capture a sink's output and are not reported as input capable. The default
// output is the default sink; its balance is derived from the front-left and
// front-right channel volumes.
package pactl

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Danondso/menumic/internal/audiodev"
)

const commandTimeout = 2 * time.Second

// RunFunc runs pactl with args and returns its stdout.
type RunFunc func(ctx context.Context, args ...string) ([]byte, error)

// System queries the sound server through pactl.
//
// DeviceIDs lists the sources and DefaultOutput lists the sinks; per-device
// queries are answered from the most recent list, which is only fetched again
// when the device asked for is missing from it.
type System struct {
	run RunFunc

	mu      sync.Mutex
	sources []node
	sinks   []node
}

// New returns a System that executes the pactl binary found in PATH.
func New() *System {
	return &System{run: execPactl}
}

// NewWithRunner returns a System that uses run instead of executing pactl.
func NewWithRunner(run RunFunc) *System {
	return &System{run: run}
}

// Available reports whether the pactl binary can be found.
func Available() bool {
	_, err := exec.LookPath("pactl")
	return err == nil
}

func execPactl(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "pactl", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("pactl %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

type channelVolume struct {
	Value int `json:"value"`
}

type node struct {
	Index         uint32                   `json:"index"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	MonitorOfSink string                   `json:"monitor_of_sink"`
	ChannelMap    string                   `json:"channel_map"`
	Volume        map[string]channelVolume `json:"volume"`
}

// channels returns the channel names in the order pactl expects volumes.
func (n node) channels() []string {
	if n.ChannelMap == "" {
		return nil
	}
	return strings.Split(n.ChannelMap, ",")
}

func (s *System) output(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return s.run(ctx, args...)
}

func (s *System) cache(kind string) *[]node {
	if kind == "sinks" {
		return &s.sinks
	}
	return &s.sources
}

// list fetches kind from the server and replaces the cached list.
func (s *System) list(kind string) ([]node, error) {
	out, err := s.output("-f", "json", "list", kind)
	if err != nil {
		return nil, err
	}
	var nodes []node
	if err := json.Unmarshal(out, &nodes); err != nil {
		return nil, fmt.Errorf("parse pactl %s: %w", kind, err)
	}
	s.mu.Lock()
	*s.cache(kind) = nodes
	s.mu.Unlock()
	return nodes, nil
}

func search(nodes []node, match func(node) bool) (node, bool) {
	for _, n := range nodes {
		if match(n) {
			return n, true
		}
	}
	return node{}, false
}

// find looks match up in the cached list of kind, listing again on a miss.
func (s *System) find(kind string, match func(node) bool) (node, error) {
	s.mu.Lock()
	cached := *s.cache(kind)
	s.mu.Unlock()
	if n, ok := search(cached, match); ok {
		return n, nil
	}

	nodes, err := s.list(kind)
	if err != nil {
		return node{}, err
	}
	if n, ok := search(nodes, match); ok {
		return n, nil
	}
	return node{}, audiodev.ErrNotFound
}

func byIndex(id audiodev.DeviceID) func(node) bool {
	return func(n node) bool { return n.Index == uint32(id) }
}

func byName(name string) func(node) bool {
	return func(n node) bool { return n.Name == name }
}

func (s *System) defaultName(getter string) (string, error) {
	out, err := s.output(getter)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", audiodev.ErrNotFound
	}
	return name, nil
}

func isMonitor(n node) bool {
	return n.MonitorOfSink != "" && n.MonitorOfSink != "n/a"
}

func (s *System) DeviceIDs() ([]audiodev.DeviceID, error) {
	nodes, err := s.list("sources")
	if err != nil {
		return nil, err
	}
	ids := make([]audiodev.DeviceID, len(nodes))
	for i, n := range nodes {
		ids[i] = audiodev.DeviceID(n.Index)
	}
	return ids, nil
}

func (s *System) HasInput(id audiodev.DeviceID) (bool, error) {
	n, err := s.find("sources", byIndex(id))
	if err != nil {
		return false, err
	}
	return !isMonitor(n), nil
}

func (s *System) DeviceName(id audiodev.DeviceID) (string, error) {
	n, err := s.find("sources", byIndex(id))
	if err != nil {
		return "", err
	}
	if n.Description != "" {
		return n.Description, nil
	}
	return n.Name, nil
}

func (s *System) DefaultInput() (audiodev.DeviceID, error) {
	name, err := s.defaultName("get-default-source")
	if err != nil {
		return 0, err
	}
	n, err := s.find("sources", byName(name))
	if err != nil {
		return 0, err
	}
	return audiodev.DeviceID(n.Index), nil
}

func (s *System) SetDefaultInput(id audiodev.DeviceID) error {
	_, err := s.output("set-default-source", strconv.FormatUint(uint64(id), 10))
	return err
}

// DefaultOutput lists the sinks afresh so the following balance queries see
// current volumes.
func (s *System) DefaultOutput() (audiodev.DeviceID, error) {
	name, err := s.defaultName("get-default-sink")
	if err != nil {
		return 0, err
	}
	nodes, err := s.list("sinks")
	if err != nil {
		return 0, err
	}
	n, ok := search(nodes, byName(name))
	if !ok {
		return 0, audiodev.ErrNotFound
	}
	return audiodev.DeviceID(n.Index), nil
}

func (s *System) StereoPan(id audiodev.DeviceID) (float32, error) {
	n, err := s.find("sinks", byIndex(id))
	if err != nil {
		return 0, err
	}
	left, right, ok := stereoVolumes(n)
	if !ok {
		return 0, audiodev.ErrUnsupported
	}
	return panFromVolumes(left, right), nil
}

// SetStereoPan rewrites the front-left and front-right volumes of the sink and
// passes every other channel through unchanged, in channel map order.
func (s *System) SetStereoPan(id audiodev.DeviceID, pan float32) error {
	n, err := s.find("sinks", byIndex(id))
	if err != nil {
		return err
	}
	volumes, err := sinkVolumes(n, pan)
	if err != nil {
		return err
	}
	args := append([]string{"set-sink-volume", strconv.FormatUint(uint64(id), 10)}, volumes...)
	_, err = s.output(args...)

	// the cached volumes are stale either way
	s.mu.Lock()
	s.sinks = nil
	s.mu.Unlock()
	return err
}

// sinkVolumes builds the volume arguments for set-sink-volume that move the
// balance of n to pan.
func sinkVolumes(n node, pan float32) ([]string, error) {
	left, right, ok := stereoVolumes(n)
	if !ok {
		return nil, audiodev.ErrUnsupported
	}
	l, r := volumesForPan(max(left, right), pan)

	channels := n.channels()
	if len(channels) == 0 {
		if len(n.Volume) != 2 {
			return nil, audiodev.ErrUnsupported
		}
		channels = []string{"front-left", "front-right"}
	}

	volumes := make([]string, len(channels))
	for i, ch := range channels {
		switch ch {
		case "front-left":
			volumes[i] = strconv.Itoa(l)
		case "front-right":
			volumes[i] = strconv.Itoa(r)
		default:
			v, ok := n.Volume[ch]
			if !ok {
				return nil, fmt.Errorf("sink %d: no volume for channel %s", n.Index, ch)
			}
			volumes[i] = strconv.Itoa(v.Value)
		}
	}
	return volumes, nil
}

func stereoVolumes(n node) (left, right int, ok bool) {
	l, lok := n.Volume["front-left"]
	r, rok := n.Volume["front-right"]
	if !lok || !rok {
		return 0, 0, false
	}
	return l.Value, r.Value, true
}

// panFromVolumes maps channel volumes onto the 0.0–1.0 pan scale: the quieter
// channel's share of the louder one determines how far the pan moves away
// from CenterPan. Equal volumes, including silence, are centered.
func panFromVolumes(left, right int) float32 {
	switch {
	case left == right:
		return audiodev.CenterPan
	case left > right:
		return audiodev.CenterPan * float32(right) / float32(left)
	default:
		return 1 - audiodev.CenterPan*float32(left)/float32(right)
	}
}

// volumesForPan is the inverse of panFromVolumes for a given loudest level.
func volumesForPan(level int, pan float32) (left, right int) {
	switch {
	case pan == audiodev.CenterPan:
		return level, level
	case pan < audiodev.CenterPan:
		return level, int(float32(level) * pan / audiodev.CenterPan)
	default:
		return int(float32(level) * (1 - pan) / audiodev.CenterPan), level
	}
}
