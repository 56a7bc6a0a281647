package tinyalsa

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PCM represents an open and configured ALSA PCM device handle.
type PCM struct {
	file       *os.File
	config     Config
	flags      PcmFlag
	bufferSize uint32 // In frames
	subdevice  uint32
	boundary   SndPcmUframesT
}

// PcmOpenByName opens a PCM by its name, in the format "hw:C,D".
func PcmOpenByName(name string, flags PcmFlag, config *Config) (*PCM, error) {
	card, device, err := ParsePcmName(name)
	if err != nil {
		return nil, err
	}

	return PcmOpen(card, device, flags, config)
}

// ParsePcmName splits a "hw:C,D" name into card and device numbers.
func ParsePcmName(name string) (card, device uint, err error) {
	if !strings.HasPrefix(name, "hw:") {
		return 0, 0, fmt.Errorf("invalid PCM name format: missing 'hw:' prefix")
	}

	parts := strings.Split(strings.TrimPrefix(name, "hw:"), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid PCM name format: expected 'hw:card,device'")
	}

	c, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid card number '%s': %w", parts[0], err)
	}

	d, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid device number '%s': %w", parts[1], err)
	}

	return uint(c), uint(d), nil
}

// Open validates config against the refined capabilities and opens the stream they were queried from.
func (pp *PcmParams) Open(config Config) (*PCM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := pp.Check(config); err != nil {
		return nil, fmt.Errorf("config not supported by hw:%d,%d: %w", pp.card, pp.device, err)
	}

	return PcmOpen(pp.card, pp.device, pp.flags, &config)
}

// PcmOpen opens an ALSA PCM device and configures it according to the provided parameters.
// A nil config selects DefaultConfig. The stream is left prepared.
// Note: only direct hardware PCM devices (e.g., /dev/snd/pcmC0D0p) are supported, no plugins.
func PcmOpen(card, device uint, flags PcmFlag, config *Config) (*PCM, error) {
	path := pcmPath(card, device, flags)

	// Always open non-blocking to avoid getting stuck
	// if the device is in use, then clear the flag if blocking mode was requested.
	file, err := os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PCM device %s: %w", ErrDeviceUnavailable, path, err)
	}

	if (flags & PCM_NONBLOCK) == 0 {
		currentFlags, err := unix.FcntlInt(file.Fd(), unix.F_GETFL, 0)
		if err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("fcntl F_GETFL for %s failed: %w", path, err)
		}

		if _, err = unix.FcntlInt(file.Fd(), unix.F_SETFL, currentFlags&^unix.O_NONBLOCK); err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("failed to set blocking mode on %s: %w", path, err)
		}
	}

	var info sndPcmInfo
	if err := ioctl(file.Fd(), SNDRV_PCM_IOCTL_INFO, uintptr(unsafe.Pointer(&info))); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("ioctl INFO failed: %w", err)
	}

	pcm := &PCM{
		file:      file,
		flags:     flags,
		subdevice: info.Subdevice,
	}

	if err := pcm.SetConfig(config); err != nil {
		_ = pcm.Close()

		return nil, fmt.Errorf("failed to set PCM config: %w", err)
	}

	if err := pcm.Prepare(); err != nil {
		_ = pcm.Close()

		return nil, err
	}

	log().Debug("opened pcm", "path", path, "subdevice", pcm.subdevice,
		"channels", pcm.config.Channels, "rate", pcm.config.Rate, "format", pcm.config.Format.String(),
		"period_size", pcm.config.PeriodSize, "period_count", pcm.config.PeriodCount)

	return pcm, nil
}

// IsReady checks if the PCM handle is valid.
func (p *PCM) IsReady() bool {
	return p != nil && p.file != nil
}

// Close closes the PCM device handle.
func (p *PCM) Close() error {
	if !p.IsReady() {
		return nil
	}

	_ = ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_HW_FREE, 0)

	err := p.file.Close()
	p.bufferSize = 0
	p.file = nil

	return err
}

// Config returns a copy of the PCM's current configuration, as finalized by the driver.
func (p *PCM) Config() Config {
	return p.config
}

// BufferSize returns the PCM's total buffer size in frames.
func (p *PCM) BufferSize() uint32 {
	return p.bufferSize
}

// Flags returns the flags the PCM was opened with.
func (p *PCM) Flags() PcmFlag {
	return p.flags
}

// Subdevice returns the subdevice number of the PCM stream.
func (p *PCM) Subdevice() uint32 {
	return p.subdevice
}

// Boundary returns the ring pointer boundary reported by the driver.
func (p *PCM) Boundary() SndPcmUframesT {
	return p.boundary
}

// hwParamsFor proposes config on a fresh parameter space.
func hwParamsFor(config Config, flags PcmFlag) (*HwParams, error) {
	native, err := config.Format.Native()
	if err != nil {
		return nil, err
	}

	hw := NewHwParams()
	hw.SetMask(PCM_PARAM_FORMAT, uint(native))
	hw.SetMin(PCM_PARAM_PERIOD_SIZE, config.PeriodSize)
	hw.SetInt(PCM_PARAM_CHANNELS, config.Channels)
	hw.SetInt(PCM_PARAM_PERIODS, config.PeriodCount)
	hw.SetInt(PCM_PARAM_RATE, config.Rate)

	if (flags & PCM_MMAP) != 0 {
		hw.SetMask(PCM_PARAM_ACCESS, uint(SNDRV_PCM_ACCESS_MMAP_INTERLEAVED))
	} else {
		hw.SetMask(PCM_PARAM_ACCESS, uint(SNDRV_PCM_ACCESS_RW_INTERLEAVED))
	}

	return hw, nil
}

// swParamsFor builds the software parameters from a finalized config.
func swParamsFor(config Config) *sndPcmSwParams {
	config = config.WithDefaults()

	sw := &sndPcmSwParams{}
	sw.TstampMode = SNDRV_PCM_TSTAMP_ENABLE
	sw.PeriodStep = 1
	sw.AvailMin = SndPcmUframesT(config.PeriodSize)
	sw.StartThreshold = SndPcmUframesT(config.StartThreshold)
	sw.StopThreshold = SndPcmUframesT(config.StopThreshold)
	sw.SilenceThreshold = SndPcmUframesT(config.SilenceThreshold)
	sw.XferAlign = SndPcmUframesT(config.PeriodSize / 2) // Needed for old kernels

	return sw
}

// SetConfig sets the hardware and software parameters for the PCM device.
// This function should be called before the stream is started.
func (p *PCM) SetConfig(config *Config) error {
	if config == nil {
		config = &DefaultConfig
	}

	if err := config.Validate(); err != nil {
		return err
	}

	params, err := hwParamsFor(*config, p.flags)
	if err != nil {
		return err
	}

	hw := params.encode()
	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_HW_PARAMS, uintptr(unsafe.Pointer(hw))); err != nil {
		return fmt.Errorf("ioctl HW_PARAMS failed: %w", err)
	}

	params.decode(hw)

	// Update our config with the values the driver finalized.
	finalized := *config
	finalized.PeriodSize = params.Min(PCM_PARAM_PERIOD_SIZE)
	finalized.PeriodCount = params.Min(PCM_PARAM_PERIODS)
	finalized.Channels = params.Min(PCM_PARAM_CHANNELS)
	finalized.Rate = params.Min(PCM_PARAM_RATE)

	if finalized.PeriodSize != config.PeriodSize {
		log().Warn("driver adjusted period size", "requested", config.PeriodSize, "actual", finalized.PeriodSize)
	}

	// Sanity check for essential parameters
	if finalized.Channels == 0 || finalized.Rate == 0 || finalized.PeriodSize == 0 || finalized.PeriodCount == 0 {
		return fmt.Errorf("driver finalized invalid PCM configuration (Channels=%d, Rate=%d, PeriodSize=%d, PeriodCount=%d)",
			finalized.Channels, finalized.Rate, finalized.PeriodSize, finalized.PeriodCount)
	}

	// Thresholds derived from the requested geometry are recomputed from the finalized one.
	if config.StartThreshold == 0 {
		finalized.StartThreshold = 0
	}

	if config.StopThreshold == 0 {
		finalized.StopThreshold = 0
	}

	finalized = finalized.WithDefaults()

	sw := swParamsFor(finalized)
	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_SW_PARAMS, uintptr(unsafe.Pointer(sw))); err != nil {
		return fmt.Errorf("ioctl SW_PARAMS (write) failed: %w", err)
	}

	p.config = finalized
	p.bufferSize = finalized.BufferSize()
	p.boundary = sw.Boundary

	return nil
}

// Prepare readies the PCM device for I/O operations.
func (p *PCM) Prepare() error {
	if !p.IsReady() {
		return fmt.Errorf("PCM handle is not valid")
	}

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_PREPARE, 0); err != nil {
		return fmt.Errorf("ioctl PREPARE failed: %w", err)
	}

	return nil
}

// Stop stops the PCM stream, dropping any pending frames.
func (p *PCM) Stop() error {
	if !p.IsReady() {
		return fmt.Errorf("PCM handle is not valid")
	}

	if err := ioctl(p.file.Fd(), SNDRV_PCM_IOCTL_DROP, 0); err != nil {
		return fmt.Errorf("ioctl DROP failed: %w", err)
	}

	return nil
}
