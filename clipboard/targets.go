package clipboard

import x11 "x11conn"

// Predefined selection atoms (§4.10 "Identity").
const (
	targetPrimary         = "PRIMARY"
	targetSecondary       = "SECONDARY"
	targetClipboard       = "CLIPBOARD"
	targetClipboardManager = "CLIPBOARD_MANAGER"
)

// Protocol atom names used by the ICCCM-level state machine (§4.10).
const (
	nameTargets         = "TARGETS"
	nameMultiple        = "MULTIPLE"
	nameTimestamp       = "TIMESTAMP"
	nameTargetSizes     = "TARGET_SIZES"
	nameSaveTargets     = "SAVE_TARGETS"
	nameDelete          = "DELETE"
	nameInsertProperty  = "INSERT_PROPERTY"
	nameInsertSelection = "INSERT_SELECTION"
	nameIncr            = "INCR"
)

// Common data-format target atom names (§4.10).
const (
	FormatUTF8String = "UTF8_STRING"
	FormatTextPlain  = "text/plain;charset=utf-8"
	FormatString     = "STRING"
	FormatText       = "TEXT"
	FormatHTML       = "text/html"
	FormatRTF        = "text/rtf"
	FormatPNG        = "image/png"
	FormatJPEG       = "image/jpeg"
	FormatTIFF       = "image/tiff"
	FormatBMP        = "image/bmp"
	FormatPDF        = "application/pdf"
	FormatURIList    = "text/uri-list"
)

// protocolAtoms is the full set of atoms a Clipboard pre-interns at startup
// (§4.10 "Identity"): selection names, protocol atoms, and the common data
// format atoms, all resolved once so the event thread never blocks on
// InternAtom mid-dispatch.
type protocolAtoms struct {
	Primary, Secondary, Clipboard, ClipboardManager x11.Atom

	Targets, Multiple, Timestamp, TargetSizes, SaveTargets x11.Atom
	Delete, InsertProperty, InsertSelection, Incr          x11.Atom

	UTF8String, TextPlain, String, Text, HTML, RTF x11.Atom
	PNG, JPEG, TIFF, BMP, PDF, URIList              x11.Atom
}

func internProtocolAtoms(conn *x11.Conn) (*protocolAtoms, error) {
	names := []string{
		targetPrimary, targetSecondary, targetClipboard, targetClipboardManager,
		nameTargets, nameMultiple, nameTimestamp, nameTargetSizes, nameSaveTargets,
		nameDelete, nameInsertProperty, nameInsertSelection, nameIncr,
		FormatUTF8String, FormatTextPlain, FormatString, FormatText, FormatHTML, FormatRTF,
		FormatPNG, FormatJPEG, FormatTIFF, FormatBMP, FormatPDF, FormatURIList,
	}
	resolved := make(map[string]x11.Atom, len(names))
	for _, n := range names {
		atom, err := conn.InternAtom(n, false)
		if err != nil {
			return nil, err
		}
		resolved[n] = atom
	}
	return &protocolAtoms{
		Primary:          resolved[targetPrimary],
		Secondary:        resolved[targetSecondary],
		Clipboard:        resolved[targetClipboard],
		ClipboardManager: resolved[targetClipboardManager],

		Targets:         resolved[nameTargets],
		Multiple:        resolved[nameMultiple],
		Timestamp:       resolved[nameTimestamp],
		TargetSizes:     resolved[nameTargetSizes],
		SaveTargets:     resolved[nameSaveTargets],
		Delete:          resolved[nameDelete],
		InsertProperty:  resolved[nameInsertProperty],
		InsertSelection: resolved[nameInsertSelection],
		Incr:            resolved[nameIncr],

		UTF8String: resolved[FormatUTF8String],
		TextPlain:  resolved[FormatTextPlain],
		String:     resolved[FormatString],
		Text:       resolved[FormatText],
		HTML:       resolved[FormatHTML],
		RTF:        resolved[FormatRTF],
		PNG:        resolved[FormatPNG],
		JPEG:       resolved[FormatJPEG],
		TIFF:       resolved[FormatTIFF],
		BMP:        resolved[FormatBMP],
		PDF:        resolved[FormatPDF],
		URIList:    resolved[FormatURIList],
	}, nil
}

// incrThresholdBytesDefault is the default size above which a selection
// value is sent via the INCR chunked protocol instead of a single
// ChangeProperty (§4.10), used when Options.IncrThresholdBytes is zero.
const incrThresholdBytesDefault = 64 * 1024

// incrChunkBytesDefault is the default size of each INCR chunk (§4.10),
// used when Options.IncrChunkBytes is zero.
const incrChunkBytesDefault = 4 * 1024
