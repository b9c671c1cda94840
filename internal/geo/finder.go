package geo

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/lox/tireswap/internal/models"
)

// Finder answers nearest-station queries over a fixed station set. The
// index stores raw (lon, lat) pairs, so tree order is only Euclidean; a
// wider candidate window is fetched and re-ranked by haversine distance,
// which can disagree with the tree order at high latitudes or across wide
// longitude spans.
//
// A Finder is immutable after construction and safe for concurrent use.
// Refreshing the station set means building a new Finder.
type Finder struct {
	tree     rtree.RTreeG[int]
	stations []models.Station
}

func NewFinder(stations []models.Station) *Finder {
	f := &Finder{stations: stations}
	for i, st := range stations {
		p := [2]float64{st.Longitude, st.Latitude}
		f.tree.Insert(p, p, i)
	}
	return f
}

func (f *Finder) Len() int {
	return len(f.stations)
}

// candidates returns the indexes of up to n stations nearest the query
// point under squared-Euclidean distance on raw coordinates, in insertion
// order.
func (f *Finder) candidates(lat, lon float64, n int) []int {
	q := [2]float64{lon, lat}
	idxs := make([]int, 0, n)
	f.tree.Nearby(
		rtree.BoxDist[float64, int](q, q, nil),
		func(min, max [2]float64, idx int, dist float64) bool {
			idxs = append(idxs, idx)
			return len(idxs) < n
		},
	)
	sort.Ints(idxs)
	return idxs
}

func (f *Finder) rank(lat, lon float64, idxs []int) []models.StationWithDistance {
	ranked := make([]models.StationWithDistance, 0, len(idxs))
	for _, idx := range idxs {
		st := f.stations[idx]
		ranked = append(ranked, models.StationWithDistance{
			Station:    st,
			DistanceKm: Haversine(lat, lon, st.Latitude, st.Longitude),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

// FindNearest returns the station closest to the query point by haversine
// distance, or nil when no stations are loaded.
func (f *Finder) FindNearest(lat, lon float64) *models.StationWithDistance {
	if len(f.stations) == 0 {
		return nil
	}
	ranked := f.rank(lat, lon, f.candidates(lat, lon, min(10, len(f.stations))))
	return &ranked[0]
}

// FindKNearest returns up to k stations sorted ascending by haversine
// distance. The tree is asked for 3k candidates so that Euclidean
// mis-ranking near the candidate boundary cannot drop a true neighbour.
func (f *Finder) FindKNearest(lat, lon float64, k int) []models.StationWithDistance {
	if len(f.stations) == 0 || k <= 0 {
		return nil
	}
	ranked := f.rank(lat, lon, f.candidates(lat, lon, min(3*k, len(f.stations))))
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
