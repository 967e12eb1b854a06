package exifselect

// The following lookup tables translate Fujifilm/Sony maker-note enum codes
// into the human-readable labels the gallery displays. Unrecognized codes
// degrade to "" rather than a raw numeric string so the frontend never has
// to special-case an unknown encoding.

func fujiFilmSimName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{
		0x000: "Provia", 0x100: "Velvia", 0x200: "Astia",
		0x300: "Monochrome", 0x301: "Monochrome+Ye", 0x302: "Monochrome+R",
		0x303: "Monochrome+G", 0x400: "Sepia", 0x500: "Pro Neg Hi",
		0x501: "Pro Neg Std", 0x600: "Classic Chrome", 0x700: "Eterna",
		0x800: "Classic Neg", 0x900: "Bleach Bypass", 0xa00: "Nostalgic Neg",
		0xb00: "Reala Ace",
	}
	return names[v]
}

func fujiDynamicRangeName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{1: "Standard", 5: "Wide1", 6: "Wide2", 0x100: "Auto"}
	return names[v]
}

func fujiWhiteBalanceName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{
		0x0: "Auto", 0x1: "Auto (white priority)", 0x2: "Auto (ambiance priority)",
		0x100: "Daylight", 0x200: "Cloudy", 0x300: "Fluorescent 1",
		0x301: "Fluorescent 2", 0x302: "Fluorescent 3", 0x400: "Incandescent",
		0x500: "Underwater", 0xf00: "Custom",
	}
	return names[v]
}

func fujiToneName(v int16, ok bool) string {
	if !ok {
		return ""
	}
	switch {
	case v <= -2:
		return "Soft"
	case v == 0:
		return "Standard"
	case v >= 2:
		return "Hard"
	default:
		return "Medium"
	}
}

func fujiLevelName(v int16, ok bool) string {
	if !ok {
		return ""
	}
	switch {
	case v < 0:
		return "Low"
	case v == 0:
		return "Standard"
	default:
		return "High"
	}
}

func fujiGrainName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{0: "Off", 0x10: "Weak", 0x20: "Strong"}
	return names[v]
}

func sonyStyleName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{
		1: "Standard", 2: "Vivid", 3: "Portrait", 4: "Landscape",
		5: "Sunset", 6: "Night View", 8: "B&W", 9: "Autumn", 11: "Sepia",
		12: "Deep", 13: "Light", 14: "Clear", 15: "FL", 17: "Real",
	}
	return names[v]
}

func sonyProfileName(v uint16, ok bool) string {
	if !ok {
		return ""
	}
	names := map[uint16]string{
		0: "Off", 1: "PP1", 2: "PP2", 3: "PP3", 4: "PP4",
		5: "PP5", 6: "PP6", 7: "PP7", 8: "PP8", 9: "PP9", 10: "PP10",
	}
	return names[v]
}
