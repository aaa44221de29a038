package item

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when adding content would push a container
// past its weight capacity. The container is unchanged when it is returned.
var ErrCapacityExceeded = errors.New("item: container capacity exceeded")

// Content is anything that can sit inside a container: a plain item stack or
// another container. Containers may nest arbitrarily.
type Content interface {
	Weight(reg *Registry) float64
	DisplayName(reg *Registry) string
}

// Container is a live container instance with a weight-bounded interior.
//
// Invariant: ContentsWeight(reg) <= Capacity at all times.
type Container struct {
	Instance
	Capacity float64
	contents []Content
}

// NewContainer creates a Container for the given container blueprint.
//
// Precondition: bp must be a validated blueprint of KindContainer.
// Postcondition: returned Container is empty with the blueprint's capacity.
func NewContainer(bp *Blueprint) *Container {
	return &Container{
		Instance: NewInstance(bp.ID, 1),
		Capacity: bp.Container.Capacity,
	}
}

// Weight returns the container's own blueprint weight plus the weight of
// everything inside it, recursively.
func (c *Container) Weight(reg *Registry) float64 {
	return c.Instance.Weight(reg) + c.ContentsWeight(reg)
}

// ContentsWeight returns the summed weight of the contents only.
//
// Postcondition: result >= 0.
func (c *Container) ContentsWeight(reg *Registry) float64 {
	var total float64
	for _, content := range c.contents {
		total += content.Weight(reg)
	}
	return total
}

// Add places content inside the container. The operation is atomic: if the
// capacity would be exceeded, the container is unchanged and
// ErrCapacityExceeded is returned.
//
// Stackable item instances merge into an existing stack of the same
// blueprint; containers and non-stackable items occupy their own entry.
//
// Precondition: content is non-nil; an Instance content has Quantity >= 1.
// Postcondition: on success the contents weight still respects Capacity.
func (c *Container) Add(content Content, reg *Registry) error {
	if c.ContentsWeight(reg)+content.Weight(reg) > c.Capacity {
		return fmt.Errorf("adding %s to %s: %w",
			content.DisplayName(reg), c.DisplayName(reg), ErrCapacityExceeded)
	}

	if inst, ok := content.(Instance); ok {
		if def, found := reg.Blueprint(inst.BlueprintID); found && def.Stackable {
			for i := range c.contents {
				existing, isInst := c.contents[i].(Instance)
				if isInst && existing.BlueprintID == inst.BlueprintID {
					existing.Quantity += inst.Quantity
					c.contents[i] = existing
					return nil
				}
			}
		}
	}

	c.contents = append(c.contents, content)
	return nil
}

// Remove takes qty units of the given blueprint out of the container.
// A stack drained to zero is deleted.
//
// Precondition: qty >= 1.
// Postcondition: on success the returned Instance has Quantity == qty; on
// error the container is unchanged.
func (c *Container) Remove(blueprintID string, qty int) (Instance, error) {
	for i := range c.contents {
		inst, ok := c.contents[i].(Instance)
		if !ok || inst.BlueprintID != blueprintID {
			continue
		}
		if inst.Quantity < qty {
			return Instance{}, fmt.Errorf("item: container holds %d of %q, cannot remove %d",
				inst.Quantity, blueprintID, qty)
		}
		if inst.Quantity == qty {
			c.contents = append(c.contents[:i], c.contents[i+1:]...)
			return inst, nil
		}
		inst.Quantity -= qty
		c.contents[i] = inst
		out := NewInstance(blueprintID, qty)
		return out, nil
	}
	return Instance{}, fmt.Errorf("item: container does not hold %q", blueprintID)
}

// RemoveContainer takes the nested container with the given instance ID out.
//
// Postcondition: on success the returned container is no longer a content.
func (c *Container) RemoveContainer(instanceID string) (*Container, error) {
	for i := range c.contents {
		sub, ok := c.contents[i].(*Container)
		if ok && sub.InstanceID == instanceID {
			c.contents = append(c.contents[:i], c.contents[i+1:]...)
			return sub, nil
		}
	}
	return nil, fmt.Errorf("item: container does not hold container instance %q", instanceID)
}

// Contents returns a snapshot copy of the container's contents.
//
// Postcondition: mutations of the returned slice do not affect the container.
func (c *Container) Contents() []Content {
	out := make([]Content, len(c.contents))
	copy(out, c.contents)
	return out
}
