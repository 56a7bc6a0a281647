package tinyalsa

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	// ErrDeviceUnavailable is returned when the PCM device node cannot be opened.
	ErrDeviceUnavailable = errors.New("pcm device unavailable")
	// ErrRefinementRejected is returned when the device cannot characterize itself
	// or the driver rejected the refine request.
	ErrRefinementRejected = errors.New("pcm refinement rejected")
	// ErrNegotiationSpent is returned by Refine on a negotiation that already failed.
	ErrNegotiationSpent = errors.New("negotiation already failed")
)

// Refiner narrows a parameter space to what a device supports.
// Implementations open the device for (card, device, flags) and replace params with the
// refined space. Failures should wrap ErrDeviceUnavailable or ErrRefinementRejected.
type Refiner interface {
	Refine(card, device uint, flags PcmFlag, params *HwParams) error
}

// KernelRefiner queries /dev/snd PCM nodes with the SNDRV_PCM_IOCTL_HW_REFINE ioctl.
type KernelRefiner struct{}

// pcmPath returns the device node of a PCM stream.
func pcmPath(card, device uint, flags PcmFlag) string {
	streamChar := 'p'
	if (flags & PCM_IN) != 0 {
		streamChar = 'c'
	}

	return fmt.Sprintf("/dev/snd/pcmC%dD%d%c", card, device, streamChar)
}

// Refine implements Refiner.
func (KernelRefiner) Refine(card, device uint, flags PcmFlag, params *HwParams) error {
	path := pcmPath(card, device, flags)

	// Use O_NONBLOCK on open to avoid getting stuck on a busy device.
	file, err := os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("%w: failed to open PCM device %s for query: %w", ErrDeviceUnavailable, path, err)
	}
	defer file.Close()

	hw := params.encode()
	if err := ioctl(file.Fd(), SNDRV_PCM_IOCTL_HW_REFINE, uintptr(unsafe.Pointer(hw))); err != nil {
		return fmt.Errorf("%w: ioctl HW_REFINE on %s failed: %w", ErrRefinementRejected, path, err)
	}

	params.decode(hw)

	return nil
}

type negotiationState int

const (
	stateUnrefined negotiationState = iota
	stateRefined
	stateFailed
)

// Negotiation discovers the capabilities of one PCM device.
// It starts with the universal space, which the caller may narrow with proposals
// through Params, and becomes refined after one successful call to Refine.
// A negotiation that failed cannot be retried; start a new one instead.
type Negotiation struct {
	card    uint
	device  uint
	flags   PcmFlag
	refiner Refiner
	params  *HwParams
	state   negotiationState
	result  *PcmParams
}

// NegotiationOption customizes a Negotiation.
type NegotiationOption func(*Negotiation)

// WithRefiner replaces the kernel refiner, e.g. with a recorded device in tests.
func WithRefiner(r Refiner) NegotiationOption {
	return func(n *Negotiation) {
		n.refiner = r
	}
}

// WithParams starts the negotiation from params instead of the universal space.
// A nil params keeps the universal space.
func WithParams(params *HwParams) NegotiationOption {
	return func(n *Negotiation) {
		if params != nil {
			n.params = params.Clone()
		}
	}
}

// NewNegotiation prepares a negotiation for the PCM stream selected by card, device and flags.
func NewNegotiation(card, device uint, flags PcmFlag, opts ...NegotiationOption) *Negotiation {
	n := &Negotiation{
		card:    card,
		device:  device,
		flags:   flags,
		refiner: KernelRefiner{},
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.params == nil {
		n.params = NewHwParams()
	}

	return n
}

// Params returns the unrefined space. Changes made to it before Refine are submitted as proposals.
func (n *Negotiation) Params() *HwParams {
	return n.params
}

// Refine submits the space to the device and returns the refined capabilities.
// Calling Refine again after success returns the same result.
func (n *Negotiation) Refine() (*PcmParams, error) {
	switch n.state {
	case stateRefined:
		return n.result, nil
	case stateFailed:
		return nil, ErrNegotiationSpent
	}

	refined := n.params.Clone()
	if err := n.refiner.Refine(n.card, n.device, n.flags, refined); err != nil {
		n.state = stateFailed
		if !errors.Is(err, ErrDeviceUnavailable) && !errors.Is(err, ErrRefinementRejected) {
			err = fmt.Errorf("%w: %w", ErrRefinementRejected, err)
		}

		log().Debug("refine failed", "path", pcmPath(n.card, n.device, n.flags), "error", err)

		return nil, err
	}

	if param, ok := refined.narrow(n.params); !ok {
		n.state = stateFailed

		return nil, fmt.Errorf("%w: no value left for %s", ErrRefinementRejected, param)
	}

	n.state = stateRefined
	n.result = &PcmParams{
		params: refined,
		card:   n.card,
		device: n.device,
		flags:  n.flags,
	}

	log().Debug("refined pcm parameters",
		"path", pcmPath(n.card, n.device, n.flags),
		"info", fmt.Sprintf("%#x", refined.Info()),
		"channels", fmt.Sprintf("%d-%d", refined.Min(PCM_PARAM_CHANNELS), refined.Max(PCM_PARAM_CHANNELS)),
		"rate", fmt.Sprintf("%d-%d", refined.Min(PCM_PARAM_RATE), refined.Max(PCM_PARAM_RATE)))

	return n.result, nil
}

// PcmParams is the refined capability space of a PCM device.
type PcmParams struct {
	params *HwParams
	card   uint
	device uint
	flags  PcmFlag
}

// PcmParamsGet queries the hardware parameters of a PCM device to discover its full range of capabilities.
func PcmParamsGet(card, device uint, flags PcmFlag) (*PcmParams, error) {
	return NewNegotiation(card, device, flags).Refine()
}

// Card returns the card number the parameters were queried from.
func (pp *PcmParams) Card() uint {
	if pp == nil {
		return 0
	}

	return pp.card
}

// Device returns the device number the parameters were queried from.
func (pp *PcmParams) Device() uint {
	if pp == nil {
		return 0
	}

	return pp.device
}

// Flags returns the stream flags the parameters were queried with.
func (pp *PcmParams) Flags() PcmFlag {
	if pp == nil {
		return PCM_OUT
	}

	return pp.flags
}

// HwParams returns a copy of the refined space.
func (pp *PcmParams) HwParams() *HwParams {
	if pp == nil || pp.params == nil {
		return nil
	}

	return pp.params.Clone()
}

// Info returns the info word reported by the device.
func (pp *PcmParams) Info() uint32 {
	if pp == nil || pp.params == nil {
		return 0
	}

	return pp.params.Info()
}

// Mask returns the bitmask of a mask parameter, or nil if param is not a mask.
func (pp *PcmParams) Mask(param PcmParam) *Mask {
	if pp == nil || pp.params == nil {
		return nil
	}

	return pp.params.Mask(param)
}

// Min returns the minimum of an interval parameter.
// It returns 0 if param is not an interval; check IsInterval before trusting a zero.
func (pp *PcmParams) Min(param PcmParam) uint32 {
	if pp == nil || pp.params == nil {
		return 0
	}

	return pp.params.Min(param)
}

// Max returns the maximum of an interval parameter, 0 if param is not an interval.
func (pp *PcmParams) Max(param PcmParam) uint32 {
	if pp == nil || pp.params == nil {
		return 0
	}

	return pp.params.Max(param)
}

// FormatIsSupported checks if a given PCM format is supported.
func (pp *PcmParams) FormatIsSupported(format PcmFormat) bool {
	native, err := format.Native()
	if err != nil {
		return false
	}

	return pp.Mask(PCM_PARAM_FORMAT).Test(uint(native))
}

// Formats returns the supported formats.
func (pp *PcmParams) Formats() []PcmFormat {
	var formats []PcmFormat
	for f := PcmFormat(0); f < PCM_FORMAT_MAX; f++ {
		if pp.FormatIsSupported(f) {
			formats = append(formats, f)
		}
	}

	return formats
}

// String returns a human-readable representation of the PCM device's capabilities.
func (pp *PcmParams) String() string {
	if pp == nil || pp.params == nil {
		return "<nil>"
	}

	var b strings.Builder

	printMask := func(label string, param PcmParam, name func(bit uint) string) {
		var supported []string
		for _, bit := range pp.Mask(param).Bits() {
			if n := name(bit); n != "" {
				supported = append(supported, n)
			}
		}

		if len(supported) > 0 {
			fmt.Fprintf(&b, "%12s: %s\n", label, strings.Join(supported, ", "))
		}
	}

	printInterval := func(label string, param PcmParam) {
		rangeMax := pp.Max(param)
		if rangeMax == 0 || rangeMax == ^uint32(0) { // Don't print meaningless ranges
			return
		}

		fmt.Fprintf(&b, "%12s: min=%-6d max=%-6d %s\n", label, pp.Min(param), rangeMax, param.Unit())
	}

	fmt.Fprintf(&b, "PCM card %d, device %d, %s capabilities:\n", pp.card, pp.device, pp.flags)
	printMask("Access", PCM_PARAM_ACCESS, func(bit uint) string {
		if int(bit) < len(sndPcmAccessNames) {
			return sndPcmAccessNames[bit]
		}

		return ""
	})
	printMask("Format", PCM_PARAM_FORMAT, func(bit uint) string {
		return sndPcmFormatNames[SndPcmFormat(bit)]
	})
	printMask("Subformat", PCM_PARAM_SUBFORMAT, func(bit uint) string {
		if int(bit) < len(sndPcmSubformatNames) {
			return sndPcmSubformatNames[bit]
		}

		return ""
	})
	printInterval("Rate", PCM_PARAM_RATE)
	printInterval("Channels", PCM_PARAM_CHANNELS)
	printInterval("Sample bits", PCM_PARAM_SAMPLE_BITS)
	printInterval("Period size", PCM_PARAM_PERIOD_SIZE)
	printInterval("Periods", PCM_PARAM_PERIODS)
	printInterval("Buffer size", PCM_PARAM_BUFFER_SIZE)

	return b.String()
}
