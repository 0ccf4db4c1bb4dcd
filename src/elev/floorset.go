package elev

import "slices"

// FloorSet keeps floor numbers strictly ascending without duplicates.
type FloorSet []int

// Add inserts floor if absent. It reports whether the set changed.
func (fs *FloorSet) Add(floor int) bool {
	i, found := slices.BinarySearch(*fs, floor)
	if found {
		return false
	}
	*fs = slices.Insert(*fs, i, floor)
	return true
}

// Remove deletes floor if present. It reports whether the set changed.
func (fs *FloorSet) Remove(floor int) bool {
	i, found := slices.BinarySearch(*fs, floor)
	if !found {
		return false
	}
	*fs = slices.Delete(*fs, i, i+1)
	return true
}

func (fs FloorSet) Contains(floor int) bool {
	_, found := slices.BinarySearch(fs, floor)
	return found
}

func (fs FloorSet) Len() int { return len(fs) }

func (fs FloorSet) Empty() bool { return len(fs) == 0 }

// Above returns the lowest floor strictly above floor.
func (fs FloorSet) Above(floor int) (int, bool) {
	i, found := slices.BinarySearch(fs, floor)
	if found {
		i++
	}
	if i >= len(fs) {
		return 0, false
	}
	return fs[i], true
}

// Below returns the highest floor strictly below floor.
func (fs FloorSet) Below(floor int) (int, bool) {
	i, _ := slices.BinarySearch(fs, floor)
	if i == 0 {
		return 0, false
	}
	return fs[i-1], true
}

// Valid reports whether the set is strictly ascending.
func (fs FloorSet) Valid() bool {
	for i := 1; i < len(fs); i++ {
		if fs[i-1] >= fs[i] {
			return false
		}
	}
	return true
}
