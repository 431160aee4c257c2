package distribution

// unitPool is an insertion-ordered set of units
type unitPool struct {
	order   []Unit
	members map[int]struct{}
}

func newUnitPool() *unitPool {
	return &unitPool{members: make(map[int]struct{})}
}

func (p *unitPool) add(u Unit) bool {
	if _, exists := p.members[u.ID()]; exists {
		return false
	}
	p.members[u.ID()] = struct{}{}
	p.order = append(p.order, u)
	return true
}

func (p *unitPool) remove(u Unit) bool {
	if _, exists := p.members[u.ID()]; !exists {
		return false
	}
	delete(p.members, u.ID())
	for i, member := range p.order {
		if member.ID() == u.ID() {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

func (p *unitPool) contains(u Unit) bool {
	_, exists := p.members[u.ID()]
	return exists
}

func (p *unitPool) len() int {
	return len(p.order)
}

func (p *unitPool) snapshot() []Unit {
	out := make([]Unit, len(p.order))
	copy(out, p.order)
	return out
}
