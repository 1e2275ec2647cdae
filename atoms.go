package x11conn

import lru "github.com/hashicorp/golang-lru"

// Atom is an opaque server-interned identifier for a string (§3 "Atom").
type Atom uint32

// AtomNone is the reserved null atom: "none" in window/property contexts,
// and "any property type" when passed as a GetProperty type filter. The
// wire protocol gives both meanings the same zero value, so this package
// preserves that ambiguity rather than inventing a wrapper type to split
// it apart (§9 Design notes, Open Question "Atom 0 ambiguity").
const AtomNone Atom = 0

// AtomAny is an alias for AtomNone used at GetProperty call sites that mean
// "any type", documenting the ambiguity instead of hiding it.
const AtomAny Atom = 0

// Predefined atoms, wire values 1..68 (§3, §6). These never need to be
// interned; they are valid for the lifetime of any connection.
const (
	AtomPrimary Atom = iota + 1
	AtomSecondary
	AtomArc
	AtomAtom
	AtomBitmap
	AtomCardinal
	AtomColormap
	AtomCursor
	AtomCutBuffer0
	AtomCutBuffer1
	AtomCutBuffer2
	AtomCutBuffer3
	AtomCutBuffer4
	AtomCutBuffer5
	AtomCutBuffer6
	AtomCutBuffer7
	AtomDrawable
	AtomFont
	AtomInteger
	AtomPixmap
	AtomPoint
	AtomRectangle
	AtomResourceManager
	AtomRGBColorMap
	AtomRGBBestMap
	AtomRGBBlueMap
	AtomRGBDefaultMap
	AtomRGBGrayMap
	AtomRGBGreenMap
	AtomRGBRedMap
	AtomString
	AtomVisualID
	AtomWindow
	AtomWMCommand
	AtomWMHints
	AtomWMClientMachine
	AtomWMIconName
	AtomWMIconSize
	AtomWMName
	AtomWMNormalHints
	AtomWMSizeHints
	AtomWMZoomHints
	AtomMinSpace
	AtomNormSpace
	AtomMaxSpace
	AtomEndSpace
	AtomSuperscriptX
	AtomSuperscriptY
	AtomSubscriptX
	AtomSubscriptY
	AtomUnderlinePosition
	AtomUnderlineThickness
	AtomStrikeoutAscent
	AtomStrikeoutDescent
	AtomItalicAngle
	AtomXHeight
	AtomQuadWidth
	AtomWeight
	AtomPointSize
	AtomResolution
	AtomCopyright
	AtomNotice
	AtomFontName
	AtomFamilyName
	AtomFullName
	AtomCapHeight
	AtomWMClass
	AtomWMTransientFor
)

// atomCacheSize bounds the name<->atom LRU so a long-lived connection that
// talks to many short-lived peers (each interning its own one-off atom
// names) doesn't grow this map without bound (§4.7 "Name lookup may be
// cached client-side" leaves cache policy unspecified).
const atomCacheSize = 4096

// atomCache maps interned atom names to their ids (and back), bounded by
// an LRU so repeated intern_atom calls for names still resident in the
// cache do not hit the wire (§8 "Atom idempotence"); a name evicted from
// the LRU is interned again on its next lookup.
type atomCache struct {
	byName *lru.Cache
	byID   *lru.Cache
}

func newAtomCache() *atomCache {
	byName, _ := lru.New(atomCacheSize)
	byID, _ := lru.New(atomCacheSize)
	c := &atomCache{byName: byName, byID: byID}
	for name, atom := range predefinedAtomNames {
		c.put(name, atom)
	}
	return c
}

func (c *atomCache) put(name string, atom Atom) {
	c.byName.Add(name, atom)
	c.byID.Add(atom, name)
}

func (c *atomCache) lookupName(name string) (Atom, bool) {
	v, ok := c.byName.Get(name)
	if !ok {
		return 0, false
	}
	return v.(Atom), true
}

func (c *atomCache) lookupAtom(atom Atom) (string, bool) {
	v, ok := c.byID.Get(atom)
	if !ok {
		return "", false
	}
	return v.(string), true
}

var predefinedAtomNames = map[string]Atom{
	"PRIMARY":             AtomPrimary,
	"SECONDARY":           AtomSecondary,
	"ARC":                 AtomArc,
	"ATOM":                AtomAtom,
	"BITMAP":              AtomBitmap,
	"CARDINAL":            AtomCardinal,
	"COLORMAP":            AtomColormap,
	"CURSOR":              AtomCursor,
	"CUT_BUFFER0":         AtomCutBuffer0,
	"CUT_BUFFER1":         AtomCutBuffer1,
	"CUT_BUFFER2":         AtomCutBuffer2,
	"CUT_BUFFER3":         AtomCutBuffer3,
	"CUT_BUFFER4":         AtomCutBuffer4,
	"CUT_BUFFER5":         AtomCutBuffer5,
	"CUT_BUFFER6":         AtomCutBuffer6,
	"CUT_BUFFER7":         AtomCutBuffer7,
	"DRAWABLE":            AtomDrawable,
	"FONT":                AtomFont,
	"INTEGER":             AtomInteger,
	"PIXMAP":              AtomPixmap,
	"POINT":               AtomPoint,
	"RECTANGLE":           AtomRectangle,
	"RESOURCE_MANAGER":    AtomResourceManager,
	"RGB_COLOR_MAP":       AtomRGBColorMap,
	"RGB_BEST_MAP":        AtomRGBBestMap,
	"RGB_BLUE_MAP":        AtomRGBBlueMap,
	"RGB_DEFAULT_MAP":     AtomRGBDefaultMap,
	"RGB_GRAY_MAP":        AtomRGBGrayMap,
	"RGB_GREEN_MAP":       AtomRGBGreenMap,
	"RGB_RED_MAP":         AtomRGBRedMap,
	"STRING":              AtomString,
	"VISUALID":            AtomVisualID,
	"WINDOW":              AtomWindow,
	"WM_COMMAND":          AtomWMCommand,
	"WM_HINTS":            AtomWMHints,
	"WM_CLIENT_MACHINE":   AtomWMClientMachine,
	"WM_ICON_NAME":        AtomWMIconName,
	"WM_ICON_SIZE":        AtomWMIconSize,
	"WM_NAME":             AtomWMName,
	"WM_NORMAL_HINTS":     AtomWMNormalHints,
	"WM_SIZE_HINTS":       AtomWMSizeHints,
	"WM_ZOOM_HINTS":       AtomWMZoomHints,
	"MIN_SPACE":           AtomMinSpace,
	"NORM_SPACE":          AtomNormSpace,
	"MAX_SPACE":           AtomMaxSpace,
	"END_SPACE":           AtomEndSpace,
	"SUPERSCRIPT_X":       AtomSuperscriptX,
	"SUPERSCRIPT_Y":       AtomSuperscriptY,
	"SUBSCRIPT_X":         AtomSubscriptX,
	"SUBSCRIPT_Y":         AtomSubscriptY,
	"UNDERLINE_POSITION":  AtomUnderlinePosition,
	"UNDERLINE_THICKNESS": AtomUnderlineThickness,
	"STRIKEOUT_ASCENT":    AtomStrikeoutAscent,
	"STRIKEOUT_DESCENT":   AtomStrikeoutDescent,
	"ITALIC_ANGLE":        AtomItalicAngle,
	"X_HEIGHT":            AtomXHeight,
	"QUAD_WIDTH":          AtomQuadWidth,
	"WEIGHT":              AtomWeight,
	"POINT_SIZE":          AtomPointSize,
	"RESOLUTION":          AtomResolution,
	"COPYRIGHT":           AtomCopyright,
	"NOTICE":              AtomNotice,
	"FONT_NAME":           AtomFontName,
	"FAMILY_NAME":         AtomFamilyName,
	"FULL_NAME":           AtomFullName,
	"CAP_HEIGHT":          AtomCapHeight,
	"WM_CLASS":            AtomWMClass,
	"WM_TRANSIENT_FOR":    AtomWMTransientFor,
}
