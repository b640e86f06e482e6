package spatial

import "github.com/aukilabs/go-tooling/pkg/errors"

// Points maps base space points to the single id located there. It serves
// footprints that are exactly one unit point. The zero value is ready to use.
type Points[C comparable] struct {
	ids map[C]ID
}

// InsertPoint registers id at point. It panics when the point is already occupied.
func (p *Points[C]) InsertPoint(point C, id ID) {
	if p.ids == nil {
		p.ids = make(map[C]ID)
	}

	if occupant, ok := p.ids[point]; ok {
		panic(violation(errors.New("point already occupied").
			WithType(ErrTypeInvariant).
			WithTag("point", point).
			WithTag("id", id).
			WithTag("occupant", occupant)))
	}
	p.ids[point] = id
}

// RemovePoint unregisters the id located at point and returns it. It panics
// when the point is not occupied.
func (p *Points[C]) RemovePoint(point C) ID {
	id, ok := p.ids[point]
	if !ok {
		panic(violation(errors.New("point not found").
			WithType(ErrTypeInvariant).
			WithTag("point", point)))
	}

	delete(p.ids, point)
	return id
}

func (p *Points[C]) LookupPoint(point C) (ID, bool) {
	id, ok := p.ids[point]
	return id, ok
}

func (p *Points[C]) Len() int {
	return len(p.ids)
}
