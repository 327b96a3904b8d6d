package analysis

import "poolstat/pkg/model"

// AllNetworks is the name of the sentinel aggregate that heads the
// shared-network registry and sums every configured range.
const AllNetworks = "All networks"

// Networks is the append-only shared-network registry.  Entry 0 is
// always the "All networks" aggregate; entries are created on first
// reference and never removed.
type Networks struct {
	list []*model.SharedNetwork
}

// NewNetworks returns a registry seeded with the root aggregate.
func NewNetworks() *Networks {
	return &Networks{list: []*model.SharedNetwork{{Name: AllNetworks}}}
}

// Root returns the "All networks" aggregate.
func (n *Networks) Root() *model.SharedNetwork {
	return n.list[0]
}

// All returns the registry in insertion order, root first.
func (n *Networks) All() []*model.SharedNetwork {
	return n.list
}

// FindOrCreate returns the network with the given name, appending a new
// entry on first reference.
func (n *Networks) FindOrCreate(name string) *model.SharedNetwork {
	for _, sn := range n.list {
		if sn.Name == name {
			return sn
		}
	}
	sn := &model.SharedNetwork{Name: name}
	n.list = append(n.list, sn)
	return sn
}
