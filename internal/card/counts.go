package card

// Counts tallies cards by (color, value). Index 0 of both axes is unused.
type Counts [NumColors + 1][NumValues + 1]int

// Add records n copies of id
func (c *Counts) Add(id Identity, n int) {
	if !id.Valid() {
		return
	}
	c[id.Color][id.Value] += n
}

// Get returns the count for id
func (c *Counts) Get(id Identity) int {
	if !id.Valid() {
		return 0
	}
	return c[id.Color][id.Value]
}

// At returns the count for (col, v)
func (c *Counts) At(col Color, v Value) int {
	return c.Get(Identity{Color: col, Value: v})
}

// ColorTotal sums every value of one color
func (c *Counts) ColorTotal(col Color) int {
	total := 0
	for _, v := range Values {
		total += c.At(col, v)
	}
	return total
}

// ValueTotal sums one value across every color
func (c *Counts) ValueTotal(v Value) int {
	total := 0
	for _, col := range Colors {
		total += c.At(col, v)
	}
	return total
}

// Total sums every cell
func (c *Counts) Total() int {
	total := 0
	for _, col := range Colors {
		total += c.ColorTotal(col)
	}
	return total
}

// Merge adds every cell of other into c
func (c *Counts) Merge(other *Counts) {
	for _, col := range Colors {
		for _, v := range Values {
			c[col][v] += other[col][v]
		}
	}
}
