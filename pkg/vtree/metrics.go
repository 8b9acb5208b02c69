package vtree

import "fmt"

// Metrics counts the operations of one reconciliation pass.
type Metrics struct {
	Created   int `json:"created"`
	Destroyed int `json:"destroyed"`
	Updated   int `json:"updated"`
	Reused    int `json:"reused"`
	Moved     int `json:"moved"`
}

// MetricsFromPatches derives metrics from a patch list.
func MetricsFromPatches(patches []Patch) Metrics {
	var m Metrics
	for i := range patches {
		switch patches[i].Op {
		case OpCreate:
			m.Created++
		case OpDestroy:
			m.Destroyed++
		case OpUpdate:
			m.Updated++
		case OpReuse:
			m.Reused++
		case OpMove:
			m.Moved++
		}
	}
	return m
}

// Add returns the sum of m and o.
func (m Metrics) Add(o Metrics) Metrics {
	return Metrics{
		Created:   m.Created + o.Created,
		Destroyed: m.Destroyed + o.Destroyed,
		Updated:   m.Updated + o.Updated,
		Reused:    m.Reused + o.Reused,
		Moved:     m.Moved + o.Moved,
	}
}

// Mutations returns the number of patches that touch a widget.
func (m Metrics) Mutations() int {
	return m.Created + m.Destroyed + m.Updated + m.Moved
}

// String implements fmt.Stringer.
func (m Metrics) String() string {
	return fmt.Sprintf("created=%d destroyed=%d updated=%d reused=%d moved=%d",
		m.Created, m.Destroyed, m.Updated, m.Reused, m.Moved)
}
