// Package assets holds the icon table shared by the mode, monitor and button panels.
//
// Icons are referenced by handle everywhere else; the bitmap memory lives here and is
// never copied into UI state.
package assets

// Icon is a handle into the icon table. IconNone hides the slot it is used in.
type Icon uint8

const (
	IconNone Icon = iota
	IconArrowsUpDown
	IconRotate360
	IconView360
	IconStretching
	IconWand
	IconBoxAlignBottomRight
	IconCaretUp
	IconCaretDown
	IconCaretLeft
	IconCaretRight
	IconStack
	IconSparkles
	IconHandMiddleFinger
	IconSettings
	IconRulerMeasure
	IconLock
	IconLockOpen
	IconBattery
	IconBatteryOff

	iconCount
)

// Bitmap is a 1-bit glyph. Rows are stored most significant bit first.
type Bitmap struct {
	Width  int16
	Height int16
	Rows   []uint8
}

// At reports whether the pixel at x, y is set.
func (b Bitmap) At(x, y int16) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height || int(y) >= len(b.Rows) {
		return false
	}
	return b.Rows[y]&(0x80>>uint8(x)) != 0
}

type entry struct {
	name   string
	bitmap Bitmap
}

var table [iconCount]entry

// Name returns the source file name of the icon, or "" for IconNone and unknown handles.
func (i Icon) Name() string {
	if i == IconNone || i >= iconCount {
		return ""
	}
	return table[i].name
}

// Bitmap returns the glyph for the icon. ok is false for IconNone and unknown handles.
func (i Icon) Bitmap() (b Bitmap, ok bool) {
	if i == IconNone || i >= iconCount {
		return Bitmap{}, false
	}
	return table[i].bitmap, true
}

func register(i Icon, name string, art [8]string) {
	rows := make([]uint8, len(art))
	for y, line := range art {
		var row uint8
		for x := 0; x < 8 && x < len(line); x++ {
			if line[x] == '#' {
				row |= 0x80 >> uint8(x)
			}
		}
		rows[y] = row
	}
	table[i] = entry{name: name, bitmap: Bitmap{Width: 8, Height: 8, Rows: rows}}
}

func init() {
	register(IconArrowsUpDown, "arrows-up-down.png", [8]string{
		"...#....",
		"..###...",
		".#.#.#..",
		"...#....",
		"...#....",
		".#.#.#..",
		"..###...",
		"...#....",
	})
	register(IconRotate360, "rotate-360.png", [8]string{
		"..####..",
		".#....#.",
		"#......#",
		"#......#",
		"#....#.#",
		".#...##.",
		"..#.###.",
		"........",
	})
	register(IconView360, "view-360-arrow.png", [8]string{
		"..####..",
		".#.##.#.",
		"#..##..#",
		"########",
		"#..##..#",
		".#.##.#.",
		"..####.#",
		"......##",
	})
	register(IconStretching, "stretching.png", [8]string{
		"......#.",
		".....###",
		"#...#.#.",
		".#.#....",
		"..##....",
		"...#....",
		"..#.#...",
		".#...#..",
	})
	register(IconWand, "wand.png", [8]string{
		"#.#....#",
		".#...#..",
		"#.#.....",
		"...#....",
		"....#...",
		".....#..",
		"......#.",
		".......#",
	})
	register(IconBoxAlignBottomRight, "box-align-bottom-right.png", [8]string{
		"########",
		"#......#",
		"#......#",
		"#...####",
		"#...####",
		"#...####",
		"#...####",
		"########",
	})
	register(IconCaretUp, "caret-up.png", [8]string{
		"........",
		"........",
		"...##...",
		"..####..",
		".######.",
		"########",
		"........",
		"........",
	})
	register(IconCaretDown, "caret-down.png", [8]string{
		"........",
		"........",
		"########",
		".######.",
		"..####..",
		"...##...",
		"........",
		"........",
	})
	register(IconCaretLeft, "caret-left.png", [8]string{
		".....#..",
		"....##..",
		"...###..",
		"..####..",
		"..####..",
		"...###..",
		"....##..",
		".....#..",
	})
	register(IconCaretRight, "caret-right.png", [8]string{
		"..#.....",
		"..##....",
		"..###...",
		"..####..",
		"..####..",
		"..###...",
		"..##....",
		"..#.....",
	})
	register(IconStack, "stack.png", [8]string{
		"...##...",
		".##..##.",
		"#......#",
		".##..##.",
		"#..##..#",
		".##..##.",
		"#..##..#",
		".##..##.",
	})
	register(IconSparkles, "sparkles.png", [8]string{
		"...#....",
		"...#..#.",
		".#####..",
		"...#..#.",
		"...#....",
		"......#.",
		".....###",
		"......#.",
	})
	register(IconHandMiddleFinger, "hand-middle-finger.png", [8]string{
		"...##...",
		"...##...",
		"...##...",
		".######.",
		"########",
		"########",
		".######.",
		"..####..",
	})
	register(IconSettings, "settings.png", [8]string{
		"..#..#..",
		".######.",
		"##....##",
		".#.##.#.",
		".#.##.#.",
		"##....##",
		".######.",
		"..#..#..",
	})
	register(IconRulerMeasure, "ruler-measure.png", [8]string{
		"########",
		"#.#.#.##",
		"#.#.#.##",
		"#.....##",
		"########",
		"........",
		"#......#",
		"########",
	})
	register(IconLock, "lock.png", [8]string{
		"..####..",
		".#....#.",
		".#....#.",
		"########",
		"###..###",
		"###..###",
		"########",
		"########",
	})
	register(IconLockOpen, "lock-open.png", [8]string{
		"..####..",
		".#....#.",
		"......#.",
		"########",
		"###..###",
		"###..###",
		"########",
		"########",
	})
	register(IconBattery, "battery.png", [8]string{
		"........",
		"#######.",
		"#.....#.",
		"#.###.##",
		"#.###.##",
		"#.....#.",
		"#######.",
		"........",
	})
	register(IconBatteryOff, "battery-off.png", [8]string{
		"#.......",
		"######..",
		"#.#...#.",
		"#..#..##",
		"#...#.##",
		"#....##.",
		"#######.",
		".......#",
	})
}
