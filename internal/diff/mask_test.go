package diff

import "testing"

func countBits(m *Mask) int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

func TestMaskAny(t *testing.T) {
	m := NewMask(10, 10)
	if m.Any() {
		t.Errorf("Expected empty mask to report no changes")
	}

	m.Set(3, 7, true)
	if !m.Any() {
		t.Errorf("Expected mask with one pixel to report changes")
	}
}

func TestMaskDilate(t *testing.T) {
	t.Run("SinglePixelGrowsToWindow", func(t *testing.T) {
		m := NewMask(20, 20)
		m.Set(10, 10, true)

		dilated := m.Dilate(3)

		// Radius 3 means a 7x7 window.
		if got := countBits(dilated); got != 49 {
			t.Errorf("Expected 49 pixels after dilation, got %d", got)
		}
		if !dilated.At(7, 7) || !dilated.At(13, 13) {
			t.Errorf("Expected window corners to be on")
		}
		if dilated.At(6, 10) || dilated.At(10, 14) {
			t.Errorf("Expected pixels outside the window to be off")
		}
	})

	t.Run("ClipsAtEdges", func(t *testing.T) {
		m := NewMask(20, 20)
		m.Set(0, 0, true)

		dilated := m.Dilate(3)

		if got := countBits(dilated); got != 16 {
			t.Errorf("Expected 16 pixels for a corner dilation, got %d", got)
		}
	})

	t.Run("ZeroRadiusCopies", func(t *testing.T) {
		m := NewMask(5, 5)
		m.Set(2, 2, true)

		dilated := m.Dilate(0)

		if got := countBits(dilated); got != 1 {
			t.Errorf("Expected radius 0 to copy the mask, got %d pixels", got)
		}
		dilated.Set(0, 0, true)
		if m.At(0, 0) {
			t.Errorf("Expected dilation to not share storage with the source")
		}
	})
}

func TestMaskOutline(t *testing.T) {
	m := NewMask(20, 20)
	m.Set(10, 10, true)

	ring := m.Outline(3)

	if ring.At(10, 10) {
		t.Errorf("Expected the blob interior to be excluded from the ring")
	}
	if !ring.At(7, 7) || !ring.At(13, 10) {
		t.Errorf("Expected the halo around the blob to be on")
	}
	if got := countBits(ring); got != 48 {
		t.Errorf("Expected 48 ring pixels, got %d", got)
	}
}
