package backend

import "sort"

type Sorter struct {
	Backends Backends
}

func (ss Sorter) Sort() func(i, j int) bool {
	return func(i, j int) bool {
		return ss.Backends[i].Order() < ss.Backends[j].Order()
	}
}

// SortByOrder Stable, so equal orders keep registration order
func (bs Backends) SortByOrder() {
	sort.SliceStable(bs, Sorter{Backends: bs}.Sort())
}
