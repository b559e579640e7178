package lockdown

// PrioritySet tracks, per item, every priority currently claiming it and
// answers with the highest one. Removing a claim only has effect when the
// removed priority is the current maximum; the claim then demotes to the
// next-highest remaining priority. Removing an already-superseded priority
// is a no-op.
type PrioritySet[T comparable] struct {
	claims map[T][]int
}

func NewPrioritySet[T comparable]() *PrioritySet[T] {
	return &PrioritySet[T]{claims: make(map[T][]int)}
}

func (p *PrioritySet[T]) Add(item T, priority int) {
	p.claims[item] = append(p.claims[item], priority)
}

func (p *PrioritySet[T]) Remove(item T, priority int) {
	current, ok := p.HighestPriority(item)
	if !ok || current != priority {
		return
	}

	claims := p.claims[item]
	for i, claim := range claims {
		if claim == priority {
			claims = append(claims[:i], claims[i+1:]...)
			break
		}
	}

	if len(claims) == 0 {
		delete(p.claims, item)
	} else {
		p.claims[item] = claims
	}
}

func (p *PrioritySet[T]) HighestPriority(item T) (int, bool) {
	claims, ok := p.claims[item]
	if !ok || len(claims) == 0 {
		return 0, false
	}

	highest := claims[0]
	for _, claim := range claims[1:] {
		if claim > highest {
			highest = claim
		}
	}
	return highest, true
}

func (p *PrioritySet[T]) Len() int {
	return len(p.claims)
}

// Items returns every claimed item with its highest priority.
func (p *PrioritySet[T]) Items() map[T]int {
	items := make(map[T]int, len(p.claims))
	for item := range p.claims {
		highest, _ := p.HighestPriority(item)
		items[item] = highest
	}
	return items
}
