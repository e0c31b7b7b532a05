package box

// QueryImages returns the query centers a radius search must visit so that
// neighbors across periodic faces are not missed: the wrapped center itself,
// plus one translated copy per non-empty subset of boundary-adjacent axes.
//
// An axis is boundary-adjacent when the center lies closer to one of its
// periodic faces than min(L/2, radius). One flagged axis doubles the centers
// (face), two quadruple them (edge), three give eight (corner). Non-periodic
// axes never flag, and radius <= 0 yields only the center.
//
// The center must already be wrapped into the central cell.
func (b *Box) QueryImages(center [3]float64, radius float64) [][3]float64 {
	var (
		axes   [3]int
		deltas [3]float64
		k      int
	)
	for i := 0; i < 3; i++ {
		l := b.lengths[i]
		if l == 0 {
			continue
		}
		extent := l / 2
		if radius < extent {
			extent = radius
		}
		if extent <= 0 {
			continue
		}
		switch {
		case l-center[i] < extent:
			// Near the upper face: search again from the lower image.
			axes[k], deltas[k] = i, -l
			k++
		case center[i] < extent:
			// Near the lower face: search again from the upper image.
			axes[k], deltas[k] = i, l
			k++
		}
	}

	images := make([][3]float64, 0, 1<<k)
	images = append(images, center)
	for mask := 1; mask < 1<<k; mask++ {
		img := center
		for j := 0; j < k; j++ {
			if mask&(1<<j) != 0 {
				img[axes[j]] += deltas[j]
			}
		}
		images = append(images, img)
	}
	return images
}
