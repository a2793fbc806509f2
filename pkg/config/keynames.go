package config

import "github.com/jesseduffield/gocui"

// KeyByLabel maps a lowercase `<name>` keybinding label, as written in
// configuration, to the gocui key it represents. Labels are matched
// case-insensitively by IsValidKeybindingKey/GetKey.
var KeyByLabel = map[string]gocui.Key{
	"<esc>":       gocui.KeyEsc,
	"<enter>":     gocui.KeyEnter,
	"<tab>":       gocui.KeyTab,
	"<backtab>":   gocui.KeyBacktab,
	"<space>":     gocui.KeySpace,
	"<f1>":        gocui.KeyF1,
	"<f2>":        gocui.KeyF2,
	"<f3>":        gocui.KeyF3,
	"<f4>":        gocui.KeyF4,
	"<f5>":        gocui.KeyF5,
	"<f6>":        gocui.KeyF6,
	"<f7>":        gocui.KeyF7,
	"<f8>":        gocui.KeyF8,
	"<f9>":        gocui.KeyF9,
	"<f10>":       gocui.KeyF10,
	"<f11>":       gocui.KeyF11,
	"<f12>":       gocui.KeyF12,
	"<up>":        gocui.KeyArrowUp,
	"<down>":      gocui.KeyArrowDown,
	"<left>":      gocui.KeyArrowLeft,
	"<right>":     gocui.KeyArrowRight,
	"<pgup>":      gocui.KeyPgup,
	"<pgdown>":    gocui.KeyPgdn,
	"<home>":      gocui.KeyHome,
	"<end>":       gocui.KeyEnd,
	"<delete>":    gocui.KeyDelete,
	"<backspace>": gocui.KeyBackspace,
	"<insert>":    gocui.KeyInsert,
	"<c-a>":       gocui.KeyCtrlA,
	"<c-b>":       gocui.KeyCtrlB,
	"<c-c>":       gocui.KeyCtrlC,
	"<c-d>":       gocui.KeyCtrlD,
	"<c-e>":       gocui.KeyCtrlE,
	"<c-f>":       gocui.KeyCtrlF,
	"<c-g>":       gocui.KeyCtrlG,
	"<c-j>":       gocui.KeyCtrlJ,
	"<c-k>":       gocui.KeyCtrlK,
	"<c-l>":       gocui.KeyCtrlL,
	"<c-n>":       gocui.KeyCtrlN,
	"<c-o>":       gocui.KeyCtrlO,
	"<c-p>":       gocui.KeyCtrlP,
	"<c-q>":       gocui.KeyCtrlQ,
	"<c-r>":       gocui.KeyCtrlR,
	"<c-s>":       gocui.KeyCtrlS,
	"<c-t>":       gocui.KeyCtrlT,
	"<c-u>":       gocui.KeyCtrlU,
	"<c-v>":       gocui.KeyCtrlV,
	"<c-w>":       gocui.KeyCtrlW,
	"<c-x>":       gocui.KeyCtrlX,
	"<c-y>":       gocui.KeyCtrlY,
	"<c-z>":       gocui.KeyCtrlZ,
	"<c-space>":   gocui.KeyCtrlSpace,
	"<c-5>":       gocui.KeyCtrl5,
}

// LabelByKey is the inverse of KeyByLabel, used to render a bound key back
// into its canonical label for help screens and error messages. KeyByLabel
// carries exactly one label per key: where gocui gives a control code two
// names (e.g. <c-h> and <backspace>), only the more readable one is a
// label, and the alias is not accepted.
var LabelByKey = map[gocui.Key]string{}

func init() {
	for label, key := range KeyByLabel {
		LabelByKey[key] = label
	}
}

// IsValidKeybindingKey reports whether key is a usable keybinding value: a
// single character (always valid, matched literally) or a recognized
// `<name>` special key (matched case-insensitively), or the sentinel
// "<disabled>" that turns a default binding off.
func IsValidKeybindingKey(key string) bool {
	if key == "<disabled>" {
		return true
	}
	runes := []rune(key)
	if len(runes) == 1 {
		return true
	}
	_, ok := KeyByLabel[toLower(key)]
	return ok
}

func toLower(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			runes[i] = r + ('a' - 'A')
		}
	}
	return string(runes)
}
