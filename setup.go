package x11conn

// Visual classes (§3 "Visual").
const (
	VisualStaticGray uint8 = iota
	VisualGrayScale
	VisualStaticColor
	VisualPseudoColor
	VisualTrueColor
	VisualDirectColor
)

// Visual is a server-side rendering format, owned by a Depth inside a
// Screen (§3 "Visual").
type Visual struct {
	ID              uint32
	Class           uint8
	BitsPerRGBValue uint8
	ColormapEntries uint16
	RedMask         uint32
	GreenMask       uint32
	BlueMask        uint32
}

// Depth groups the visuals a screen supports at one pixel depth.
type Depth struct {
	Depth   uint8
	Visuals []Visual
}

// Screen is one root window and its associated display hardware
// description (§3 "Screen").
type Screen struct {
	Root                uint32
	DefaultColormap      uint32
	WhitePixel          uint32
	BlackPixel          uint32
	CurrentInputMasks   uint32
	WidthInPixels       uint16
	HeightInPixels      uint16
	WidthInMillimeters  uint16
	HeightInMillimeters uint16
	MinInstalledMaps    uint16
	MaxInstalledMaps    uint16
	RootVisual          uint32
	BackingStores       uint8
	SaveUnders          bool
	RootDepth           uint8
	Depths              []Depth
}

// PixmapFormat describes one supported pixmap bit-layout.
type PixmapFormat struct {
	Depth        uint8
	BitsPerPixel uint8
	ScanlinePad  uint8
}

// SetupInfo is everything the handshake (§4.5) publishes about the server:
// screens, visuals, and the keycode range.
type SetupInfo struct {
	ProtocolMajorVersion uint16
	ProtocolMinorVersion uint16
	ReleaseNumber        uint32
	ResourceIDBase       uint32
	ResourceIDMask       uint32
	MotionBufferSize     uint32
	MaximumRequestLength uint16
	ImageByteOrder       uint8
	BitmapFormatBitOrder uint8
	BitmapScanlineUnit   uint8
	BitmapScanlinePad    uint8
	MinKeycode           uint8
	MaxKeycode           uint8
	Vendor               string
	PixmapFormats        []PixmapFormat
	Roots                []Screen
}

// DefaultScreen is the first entry in Roots, per §3 "the first screen in
// the roots list is the default screen".
func (s *SetupInfo) DefaultScreen() *Screen {
	if len(s.Roots) == 0 {
		return nil
	}
	return &s.Roots[0]
}

// parseSetupSuccess decodes the body of a Success setup reply (§4.5 step 3),
// i.e. everything after the 1-byte status code, the pad byte, the 2+2 byte
// version fields and the 2-byte length word, which the caller has already
// consumed to know how much to read.
func parseSetupSuccess(r *byteReader) *SetupInfo {
	info := &SetupInfo{}
	info.ReleaseNumber = r.u32()
	info.ResourceIDBase = r.u32()
	info.ResourceIDMask = r.u32()
	info.MotionBufferSize = r.u32()
	vendorLen := r.u16()
	info.MaximumRequestLength = r.u16()
	numRoots := r.u8()
	numFormats := r.u8()
	info.ImageByteOrder = r.u8()
	info.BitmapFormatBitOrder = r.u8()
	info.BitmapScanlineUnit = r.u8()
	info.BitmapScanlinePad = r.u8()
	info.MinKeycode = r.u8()
	info.MaxKeycode = r.u8()
	r.skip(4) // unused

	info.Vendor = string(r.raw(int(vendorLen)))
	r.skip(pad(int(vendorLen)))

	info.PixmapFormats = make([]PixmapFormat, numFormats)
	for i := range info.PixmapFormats {
		info.PixmapFormats[i] = PixmapFormat{
			Depth:        r.u8(),
			BitsPerPixel: r.u8(),
			ScanlinePad:  r.u8(),
		}
		r.skip(5)
	}

	info.Roots = make([]Screen, numRoots)
	for i := range info.Roots {
		info.Roots[i] = parseScreen(r)
	}
	return info
}

func parseScreen(r *byteReader) Screen {
	var s Screen
	s.Root = r.u32()
	s.DefaultColormap = r.u32()
	s.WhitePixel = r.u32()
	s.BlackPixel = r.u32()
	s.CurrentInputMasks = r.u32()
	s.WidthInPixels = r.u16()
	s.HeightInPixels = r.u16()
	s.WidthInMillimeters = r.u16()
	s.HeightInMillimeters = r.u16()
	s.MinInstalledMaps = r.u16()
	s.MaxInstalledMaps = r.u16()
	s.RootVisual = r.u32()
	s.BackingStores = r.u8()
	s.SaveUnders = r.u8() != 0
	s.RootDepth = r.u8()
	numDepths := r.u8()

	s.Depths = make([]Depth, numDepths)
	for i := range s.Depths {
		s.Depths[i] = parseDepth(r)
	}
	return s
}

func parseDepth(r *byteReader) Depth {
	var d Depth
	d.Depth = r.u8()
	r.skip(1)
	numVisuals := r.u16()
	r.skip(4)
	d.Visuals = make([]Visual, numVisuals)
	for i := range d.Visuals {
		d.Visuals[i] = Visual{
			ID:              r.u32(),
			Class:           r.u8(),
			BitsPerRGBValue: r.u8(),
			ColormapEntries: r.u16(),
			RedMask:         r.u32(),
			GreenMask:       r.u32(),
			BlueMask:        r.u32(),
		}
		r.skip(4)
	}
	return d
}
