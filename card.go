package tinyalsa

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SoundCardDevice is one PCM stream of a sound card.
type SoundCardDevice struct {
	ID          uint
	Name        string
	Description string
	Flags       PcmFlag // PCM_OUT or PCM_IN
}

// String returns a human-readable representation of the SoundCardDevice.
func (d SoundCardDevice) String() string {
	return fmt.Sprintf("  Device %d: %s (%s) [%s]", d.ID, d.Name, d.Description, d.Flags)
}

// SoundCard represents an enumerated sound card with its PCM streams.
type SoundCard struct {
	ID          uint
	Name        string
	Description string
	Devices     []SoundCardDevice
}

// String returns a human-readable representation of the SoundCard.
func (c SoundCard) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Card %d: %s (%s)\n", c.ID, c.Name, c.Description)
	for _, dev := range c.Devices {
		sb.WriteString(dev.String() + "\n")
	}

	return sb.String()
}

// Negotiate starts a capability negotiation for one of the card's streams.
func (c SoundCard) Negotiate(d SoundCardDevice, opts ...NegotiationOption) *Negotiation {
	return NewNegotiation(c.ID, d.ID, d.Flags, opts...)
}

var (
	// " 0 [Loopback       ]: Loopback - Loopback"
	cardRegex = regexp.MustCompile(`^\s*(\d+)\s+\[\s*([^]]*?)\s*\]:\s*(.*)`)
	// "02-00: Loopback PCM : Loopback PCM : playback 8 : capture 8"
	pcmRegex = regexp.MustCompile(`^(\d+)-(\d+): (.*?) :(.*)`)
)

// EnumerateCards scans /proc/asound to find all available sound cards and their PCM streams.
func EnumerateCards() ([]SoundCard, error) {
	cardsFile := "/proc/asound/cards"
	cardsContent, err := os.ReadFile(cardsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", cardsFile, err)
	}

	pcmFile := "/proc/asound/pcm"
	pcmContent, err := os.ReadFile(pcmFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", pcmFile, err)
	}

	return ParseCards(string(cardsContent), string(pcmContent)), nil
}

// ParseCards builds the card list from the contents of /proc/asound/cards and /proc/asound/pcm.
func ParseCards(cards, pcm string) []SoundCard {
	cardMap := make(map[uint]*SoundCard)

	for _, line := range strings.Split(cards, "\n") {
		matches := cardRegex.FindStringSubmatch(line)
		if len(matches) != 4 {
			continue
		}

		id, err := strconv.ParseUint(matches[1], 10, 32)
		if err != nil {
			continue
		}

		cardMap[uint(id)] = &SoundCard{
			ID:          uint(id),
			Name:        strings.TrimSpace(matches[2]),
			Description: strings.TrimSpace(matches[3]),
		}
	}

	for _, line := range strings.Split(pcm, "\n") {
		matches := pcmRegex.FindStringSubmatch(line)
		if len(matches) != 5 {
			continue
		}

		cardID, _ := strconv.ParseUint(matches[1], 10, 32)
		devID, _ := strconv.ParseUint(matches[2], 10, 32)

		card, ok := cardMap[uint(cardID)]
		if !ok {
			continue
		}

		description := strings.TrimSpace(matches[3])

		// A single PCM device can have both playback and capture streams.
		if strings.Contains(matches[4], "playback") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          uint(devID),
				Name:        fmt.Sprintf("pcm%dp", devID),
				Description: description,
				Flags:       PCM_OUT,
			})
		}

		if strings.Contains(matches[4], "capture") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          uint(devID),
				Name:        fmt.Sprintf("pcm%dc", devID),
				Description: description,
				Flags:       PCM_IN,
			})
		}
	}

	ids := make([]uint, 0, len(cardMap))
	for id := range cardMap {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]SoundCard, 0, len(ids))
	for _, id := range ids {
		result = append(result, *cardMap[id])
	}

	return result
}
