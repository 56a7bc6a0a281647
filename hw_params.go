package tinyalsa

import (
	"math"
	"math/bits"
)

// MaskMax is the number of codes a Mask can hold.
const MaskMax = 64

const maskWords = MaskMax / 32

// Mask is the set of allowed codes of a mask parameter, e.g. the supported formats.
type Mask struct {
	bits [maskWords]uint32
}

// NewMask returns a mask holding the given codes. Codes beyond MaskMax are ignored.
func NewMask(codes ...uint) *Mask {
	m := &Mask{}
	for _, code := range codes {
		if code < MaskMax {
			m.bits[code>>5] |= 1 << (code & 31)
		}
	}

	return m
}

func fullMask() Mask {
	var m Mask
	for i := range m.bits {
		m.bits[i] = ^uint32(0)
	}

	return m
}

// Test checks if a specific bit in the mask is set.
func (m *Mask) Test(bit uint) bool {
	if m == nil || bit >= MaskMax {
		return false
	}

	return (m.bits[bit>>5] & (1 << (bit & 31))) != 0
}

// Count returns the number of codes in the mask.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}

	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount32(w)
	}

	return n
}

// Full reports whether every code is allowed.
func (m *Mask) Full() bool {
	return m.Count() == MaskMax
}

// Bits returns the codes in the mask in ascending order.
func (m *Mask) Bits() []uint {
	var set []uint
	for bit := uint(0); bit < MaskMax; bit++ {
		if m.Test(bit) {
			set = append(set, bit)
		}
	}

	return set
}

func (m *Mask) single(bit uint) {
	for i := range m.bits {
		m.bits[i] = 0
	}

	m.bits[bit>>5] = 1 << (bit & 31)
}

func (m *Mask) and(other *Mask) {
	for i := range m.bits {
		m.bits[i] &= other.bits[i]
	}
}

// Interval is the range of allowed values of an interval parameter.
type Interval struct {
	Min     uint32
	Max     uint32
	OpenMin bool // Min itself is excluded
	OpenMax bool // Max itself is excluded
	Integer bool
	Empty   bool
}

func fullInterval() Interval {
	return Interval{Min: 0, Max: math.MaxUint32}
}

// IsExact reports whether the interval has collapsed to a single integer.
func (i Interval) IsExact() bool {
	return i.Integer && i.Min == i.Max && !i.OpenMin && !i.OpenMax && !i.Empty
}

// Contains reports whether v lies inside the interval, honoring open bounds.
func (i Interval) Contains(v uint32) bool {
	if i.Empty || v < i.Min || v > i.Max {
		return false
	}

	if i.OpenMin && v == i.Min {
		return false
	}

	return !(i.OpenMax && v == i.Max)
}

// intersect narrows i to the values also allowed by other.
// It returns false if nothing is left.
func (i *Interval) intersect(other Interval) bool {
	if other.Min > i.Min || (other.Min == i.Min && other.OpenMin) {
		i.Min, i.OpenMin = other.Min, other.OpenMin
	}

	if other.Max < i.Max || (other.Max == i.Max && other.OpenMax) {
		i.Max, i.OpenMax = other.Max, other.OpenMax
	}

	i.Integer = i.Integer || other.Integer
	if i.Empty || other.Empty || i.Min > i.Max || (i.Min == i.Max && (i.OpenMin || i.OpenMax)) {
		i.Empty = true
		i.Max = i.Min

		return false
	}

	return true
}

// HwParams is a hardware parameter space: one mask or interval per PcmParam.
// A HwParams is a plain value owned by its creator and is not safe for concurrent use.
type HwParams struct {
	masks     [maskCount]Mask
	intervals [intervalCount]Interval
	rmask     uint32
	cmask     uint32
	info      uint32
	msbits    uint32
}

// NewHwParams returns the universal parameter space in which every value is allowed.
func NewHwParams() *HwParams {
	p := &HwParams{}
	for n := range p.masks {
		p.masks[n] = fullMask()
	}

	for n := range p.intervals {
		p.intervals[n] = fullInterval()
	}

	p.rmask = ^uint32(0)
	p.cmask = 0
	p.info = ^uint32(0)

	return p
}

// Clone returns an independent copy of the space, nil for a nil space.
func (p *HwParams) Clone() *HwParams {
	if p == nil {
		return nil
	}

	c := *p

	return &c
}

// mask and interval return nil for a nil space or the wrong kind, which makes
// every getter return zero and every setter a no-op.
func (p *HwParams) mask(param PcmParam) *Mask {
	if p == nil || !param.IsMask() {
		return nil
	}

	return &p.masks[paramTable[param].slot]
}

func (p *HwParams) interval(param PcmParam) *Interval {
	if p == nil || !param.IsInterval() {
		return nil
	}

	return &p.intervals[paramTable[param].slot]
}

// SetMask restricts a mask parameter to the single code bit.
// Bits beyond MaskMax and non-mask parameters are ignored.
func (p *HwParams) SetMask(param PcmParam, bit uint) {
	m := p.mask(param)
	if m == nil || bit >= MaskMax {
		return
	}

	m.single(bit)
}

// RestrictMask removes from a mask parameter every code not present in allowed.
func (p *HwParams) RestrictMask(param PcmParam, allowed *Mask) {
	m := p.mask(param)
	if m == nil || allowed == nil {
		return
	}

	m.and(allowed)
}

// Mask returns a copy of the mask of param, or nil if param is not a mask.
func (p *HwParams) Mask(param PcmParam) *Mask {
	m := p.mask(param)
	if m == nil {
		return nil
	}

	c := *m

	return &c
}

// SetMin sets the lower bound of an interval parameter and leaves the rest as is.
// A bound above the current maximum raises the maximum too.
func (p *HwParams) SetMin(param PcmParam, val uint32) {
	i := p.interval(param)
	if i == nil {
		return
	}

	i.Min = val
	i.OpenMin = false
	if i.Max < val {
		i.Max = val
	}
}

// SetMax sets the upper bound of an interval parameter.
// A bound below the current minimum lowers the minimum too.
func (p *HwParams) SetMax(param PcmParam, val uint32) {
	i := p.interval(param)
	if i == nil {
		return
	}

	i.Max = val
	i.OpenMax = false
	if i.Min > val {
		i.Min = val
	}
}

// Min returns the lower bound of an interval parameter, 0 for other parameters.
func (p *HwParams) Min(param PcmParam) uint32 {
	i := p.interval(param)
	if i == nil {
		return 0
	}

	return i.Min
}

// Max returns the upper bound of an interval parameter, 0 for other parameters.
func (p *HwParams) Max(param PcmParam) uint32 {
	i := p.interval(param)
	if i == nil {
		return 0
	}

	return i.Max
}

// SetInt collapses an interval parameter to the exact value val.
func (p *HwParams) SetInt(param PcmParam, val uint32) {
	i := p.interval(param)
	if i == nil {
		return
	}

	*i = Interval{Min: val, Max: val, Integer: true}
}

// Int returns the value of an exact interval parameter, 0 if it is not exact.
func (p *HwParams) Int(param PcmParam) uint32 {
	i := p.interval(param)
	if i == nil || !i.IsExact() {
		return 0
	}

	return i.Max
}

// Interval returns the interval of param; ok is false if param is not an interval.
func (p *HwParams) Interval(param PcmParam) (Interval, bool) {
	i := p.interval(param)
	if i == nil {
		return Interval{}, false
	}

	return *i, true
}

// Info returns the info word reported by the driver. It is not interpreted.
func (p *HwParams) Info() uint32 {
	if p == nil {
		return 0
	}

	return p.info
}

// MsBits returns the number of significant bits reported by the driver, 0 if unknown.
func (p *HwParams) MsBits() uint32 {
	if p == nil {
		return 0
	}

	return p.msbits
}

// narrow intersects p with the space it was derived from, so p is never wider than from.
// It returns the first parameter left without any allowed value.
func (p *HwParams) narrow(from *HwParams) (PcmParam, bool) {
	for param := PcmParam(0); param < pcmParamCount; param++ {
		if m := p.mask(param); m != nil {
			m.and(from.mask(param))
			if m.Count() == 0 {
				return param, false
			}

			continue
		}

		if !p.interval(param).intersect(*from.interval(param)) {
			return param, false
		}
	}

	return 0, true
}

// encode converts the space into the kernel snd_pcm_hw_params layout.
func (p *HwParams) encode() *sndPcmHwParams {
	hw := &sndPcmHwParams{}

	for n := range p.masks {
		src, dst := &p.masks[n], &hw.Masks[n]
		copy(dst.Bits[:maskWords], src.bits[:])

		// Codes beyond MaskMax stay unconstrained until the mask is narrowed.
		if src.Full() {
			for w := maskWords; w < len(dst.Bits); w++ {
				dst.Bits[w] = ^uint32(0)
			}
		}
	}

	for n := range hw.Mres {
		for w := range hw.Mres[n].Bits {
			hw.Mres[n].Bits[w] = ^uint32(0)
		}
	}

	for n := range p.intervals {
		src := &p.intervals[n]
		dst := &hw.Intervals[n]
		dst.MinVal = src.Min
		dst.MaxVal = src.Max
		dst.Flags = 0
		if src.OpenMin {
			dst.Flags |= SNDRV_PCM_INTERVAL_OPENMIN
		}

		if src.OpenMax {
			dst.Flags |= SNDRV_PCM_INTERVAL_OPENMAX
		}

		if src.Integer {
			dst.Flags |= SNDRV_PCM_INTERVAL_INTEGER
		}

		if src.Empty {
			dst.Flags |= SNDRV_PCM_INTERVAL_EMPTY
		}
	}

	for n := range hw.Ires {
		hw.Ires[n].MaxVal = ^uint32(0)
	}

	hw.Rmask = p.rmask
	hw.Cmask = p.cmask
	hw.Info = p.info

	return hw
}

// decode replaces the space with the contents of a kernel snd_pcm_hw_params.
func (p *HwParams) decode(hw *sndPcmHwParams) {
	for n := range p.masks {
		copy(p.masks[n].bits[:], hw.Masks[n].Bits[:maskWords])
	}

	for n := range p.intervals {
		src := &hw.Intervals[n]
		p.intervals[n] = Interval{
			Min:     src.MinVal,
			Max:     src.MaxVal,
			OpenMin: src.Flags&SNDRV_PCM_INTERVAL_OPENMIN != 0,
			OpenMax: src.Flags&SNDRV_PCM_INTERVAL_OPENMAX != 0,
			Integer: src.Flags&SNDRV_PCM_INTERVAL_INTEGER != 0,
			Empty:   src.Flags&SNDRV_PCM_INTERVAL_EMPTY != 0,
		}
	}

	p.rmask = hw.Rmask
	p.cmask = hw.Cmask
	p.info = hw.Info
	p.msbits = hw.Msbits
}
