package render

import (
	"sort"

	"github.com/disintegration/imaging"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/studiopnt/paint-studio-mcp/internal/dye"
)

// bestDyeSampleSide bounds the clustering sample; clustering cost grows
// with pixel count, not image size, so a coarse sample is enough.
const bestDyeSampleSide = 64

// CalculateBestDyes clusters the source image colors with k-means and maps
// each cluster center to its nearest dye, ordered by cluster weight. Dyes
// covering larger clusters rank first. When clustering cannot run (tiny
// images, degenerate k) the frequency ranking takes over.
func (e *Engine) CalculateBestDyes(limit int) []int {
	if limit <= 0 || e.img == nil || len(e.palette) == 0 {
		return nil
	}

	sample := imaging.Resize(e.img, bestDyeSampleSide, bestDyeSampleSide, imaging.NearestNeighbor)
	obs := make(clusters.Observations, 0, bestDyeSampleSide*bestDyeSampleSide)
	bounds := sample.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := sample.At(x, y).RGBA()
			obs = append(obs, clusters.Coordinates{
				float64(r>>8) / 255.0,
				float64(g>>8) / 255.0,
				float64(b>>8) / 255.0,
			})
		}
	}

	k := limit
	if k > len(obs) {
		k = len(obs)
	}
	if k < 1 {
		return nil
	}

	km := kmeans.New()
	cs, err := km.Partition(obs, k)
	if err != nil {
		return dye.RankBestColors(e.img, e.palette, limit)
	}

	sort.SliceStable(cs, func(i, j int) bool {
		return len(cs[i].Observations) > len(cs[j].Observations)
	})

	seen := make(map[int]bool, limit)
	ranked := make([]int, 0, limit)
	for _, c := range cs {
		if len(c.Center) < 3 {
			continue
		}
		id, ok := nearestDye(e.palette, c.Center[0], c.Center[1], c.Center[2])
		if ok && !seen[id] {
			seen[id] = true
			ranked = append(ranked, id)
		}
	}

	// Distinct cluster centers can collapse onto the same dye; top up from
	// the frequency ranking so the caller gets the count it asked for.
	if len(ranked) < limit {
		for _, id := range dye.RankBestColors(e.img, e.palette, limit) {
			if !seen[id] {
				seen[id] = true
				ranked = append(ranked, id)
			}
			if len(ranked) == limit {
				break
			}
		}
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// nearestDye finds the dye closest to an sRGB triple in [0,1].
func nearestDye(p dye.Palette, r, g, b float64) (int, bool) {
	bestID, bestDist := 0, -1.0
	for _, d := range p {
		dr, dg, db, ok := d.RGB8()
		if !ok {
			continue
		}
		dx := r - float64(dr)/255.0
		dy := g - float64(dg)/255.0
		dz := b - float64(db)/255.0
		dist := dx*dx + dy*dy + dz*dz
		if bestDist < 0 || dist < bestDist {
			bestID, bestDist = d.ID, dist
		}
	}
	return bestID, bestDist >= 0
}
