package core

// Color is the foreground of a screen cell. The host maps each value to a
// terminal style; ColorTheme follows the hex theme set on the Screen.
type Color uint8

const (
	ColorDefault     Color = iota
	ColorTheme             // current level color
	ColorGray              // HUD text, background stars
	ColorRed
	ColorBrightRed         // crashed player
	ColorBrightWhite       // player, spikes on the beat
)
