package model

import (
	"fmt"
	"sync"
)

// Item — конкретный экземпляр предмета (tool, component, container of charges).
// Может лежать у игрока, на земле или в багажнике транспорта.
type Item struct {
	objectID uint32     // Unique ID в world (stable reference для removal)
	typeID   ItemTypeID // ссылка на ItemType
	location ItemLocation
	count    int32 // Stack count (1 для non-stackable)
	charges  int32 // Текущие charges (0 если тип не заряжается)

	template *ItemType

	mu sync.RWMutex
}

// ItemLocation определяет где находится предмет.
type ItemLocation int32

const (
	ItemLocationCarried ItemLocation = iota
	ItemLocationGround
	ItemLocationVehicle
	ItemLocationVoid // Consumed/deleted
)

// String returns human-readable item location name.
func (il ItemLocation) String() string {
	switch il {
	case ItemLocationCarried:
		return "Carried"
	case ItemLocationGround:
		return "Ground"
	case ItemLocationVehicle:
		return "Vehicle"
	case ItemLocationVoid:
		return "Void"
	default:
		return "Unknown"
	}
}

// NewItem создаёт новый предмет с валидацией.
//
// Parameters:
//   - objectID: unique ID в world
//   - template: ItemType из каталога
//   - count: stack count (должен быть > 0)
//   - charges: текущие charges (>= 0; для non-charge типов должен быть 0)
//
// Returns:
//   - *Item: новый предмет
//   - error: если валидация провалилась
func NewItem(objectID uint32, template *ItemType, count, charges int32) (*Item, error) {
	if template == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be > 0, got %d", count)
	}
	if count > 1 && !template.Stackable {
		return nil, fmt.Errorf("item type %q is not stackable, got count %d", template.ID, count)
	}
	if charges < 0 {
		return nil, fmt.Errorf("charges cannot be negative, got %d", charges)
	}
	if charges > 0 && !template.HasCharges() {
		return nil, fmt.Errorf("item type %q does not carry charges", template.ID)
	}
	if template.MaxCharges > 0 && charges > template.MaxCharges {
		return nil, fmt.Errorf("charges %d exceed max %d for %q", charges, template.MaxCharges, template.ID)
	}

	return &Item{
		objectID: objectID,
		typeID:   template.ID,
		location: ItemLocationCarried,
		count:    count,
		charges:  charges,
		template: template,
	}, nil
}

// ObjectID возвращает unique ID в world.
func (i *Item) ObjectID() uint32 {
	return i.objectID
}

// TypeID возвращает ID типа предмета.
func (i *Item) TypeID() ItemTypeID {
	return i.typeID
}

// Template возвращает ItemType (immutable).
func (i *Item) Template() *ItemType {
	return i.template
}

// Name возвращает название предмета из template.
func (i *Item) Name() string {
	return i.template.Name
}

// Location возвращает текущее местоположение предмета.
func (i *Item) Location() ItemLocation {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.location
}

// SetLocation устанавливает местоположение предмета.
func (i *Item) SetLocation(location ItemLocation) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.location = location
}

// Count возвращает stack count.
func (i *Item) Count() int32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.count
}

// SetCount устанавливает stack count с валидацией.
func (i *Item) SetCount(count int32) error {
	if count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", count)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.count = count
	return nil
}

// Charges возвращает текущие charges.
func (i *Item) Charges() int32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.charges
}

// SetCharges устанавливает charges с валидацией.
func (i *Item) SetCharges(charges int32) error {
	if charges < 0 {
		return fmt.Errorf("charges cannot be negative, got %d", charges)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.charges = charges
	return nil
}

// QualityLevel возвращает уровень качества предмета (из template).
func (i *Item) QualityLevel(q QualityID) (int32, bool) {
	return i.template.QualityLevel(q)
}

// CountsByCharges returns true if quantity of this item is measured in charges.
func (i *Item) CountsByCharges() bool {
	return i.template.CountByCharges
}

// IsEmpty returns true when nothing is left of the item: no units, or a
// by-charges item drained to zero.
func (i *Item) IsEmpty() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.count <= 0 {
		return true
	}
	return i.template.CountByCharges && i.charges <= 0
}

// Snapshot returns a detached copy of the item. Template is shared (immutable).
func (i *Item) Snapshot() *Item {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return &Item{
		objectID: i.objectID,
		typeID:   i.typeID,
		location: i.location,
		count:    i.count,
		charges:  i.charges,
		template: i.template,
	}
}

// String implements fmt.Stringer.
func (i *Item) String() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.charges > 0 {
		return fmt.Sprintf("%s#%d(x%d, %d charges)", i.typeID, i.objectID, i.count, i.charges)
	}
	return fmt.Sprintf("%s#%d(x%d)", i.typeID, i.objectID, i.count)
}
