package diff

// Mask is a boolean grid marking changed pixels. It always has the same
// dimensions as the normalized bitmaps it was computed from.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

func NewMask(width int, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

func (m *Mask) At(x int, y int) bool {
	return m.Bits[y*m.Width+x]
}

func (m *Mask) Set(x int, y int, on bool) {
	m.Bits[y*m.Width+x] = on
}

func (m *Mask) Any() bool {
	for _, b := range m.Bits {
		if b {
			return true
		}
	}
	return false
}

// Dilate applies a square max filter of the given radius: a pixel is on in
// the result if any pixel within the (2*radius+1)² window around it is on
// in the source. Implemented as two separable 1-D passes.
func (m *Mask) Dilate(radius int) *Mask {
	if radius <= 0 {
		out := NewMask(m.Width, m.Height)
		copy(out.Bits, m.Bits)
		return out
	}

	horizontal := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		row := y * m.Width
		for x := 0; x < m.Width; x++ {
			if !m.Bits[row+x] {
				continue
			}
			lo := x - radius
			if lo < 0 {
				lo = 0
			}
			hi := x + radius
			if hi >= m.Width {
				hi = m.Width - 1
			}
			for i := lo; i <= hi; i++ {
				horizontal.Bits[row+i] = true
			}
		}
	}

	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		row := y * m.Width
		for x := 0; x < m.Width; x++ {
			if !horizontal.Bits[row+x] {
				continue
			}
			lo := y - radius
			if lo < 0 {
				lo = 0
			}
			hi := y + radius
			if hi >= m.Height {
				hi = m.Height - 1
			}
			for i := lo; i <= hi; i++ {
				out.Bits[i*m.Width+x] = true
			}
		}
	}

	return out
}

// Outline returns the border ring around changed regions: the dilation of
// the mask minus the mask itself.
func (m *Mask) Outline(radius int) *Mask {
	out := m.Dilate(radius)
	for i, b := range m.Bits {
		if b {
			out.Bits[i] = false
		}
	}
	return out
}
