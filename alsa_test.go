package tinyalsa_test

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// To run the hardware tests, the 'snd-aloop' kernel module must be loaded:
//
// sudo modprobe snd-aloop
//
// This creates a virtual loopback sound card. Tests that need it are skipped otherwise.

const loopbackPlaybackDevice = 0

// findCard searches /proc/asound/cards for the passed device name and returns its card number. Returns -1 if not found.
func findCard(name string) int {
	content, err := os.ReadFile("/proc/asound/cards")
	if err != nil {
		return -1
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, name) {
			var card int
			// The format is " 0 [Loopback       ]: Loopback - Loopback"
			if _, err := fmt.Sscanf(line, " %d", &card); err == nil {
				return card
			}
		}
	}

	return -1
}

// loopbackCard returns the card number of the loopback device or skips the test.
func loopbackCard(t *testing.T) uint {
	t.Helper()

	card := findCard("Loopback")
	if card == -1 {
		t.Skip("ALSA loopback device not found, run: sudo modprobe snd-aloop")
	}

	return uint(card)
}
