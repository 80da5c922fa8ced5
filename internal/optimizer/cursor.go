package optimizer

// Cursor walks a materialized result list one entry at a time. The list is
// computed once; pulling never re-runs the search.
type Cursor struct {
	results []Result
	pos     int
}

func NewCursor(results []Result) *Cursor {
	return &Cursor{results: results}
}

// Next returns the next result, or false once the list is exhausted.
func (c *Cursor) Next() (Result, bool) {
	if c == nil || c.pos >= len(c.results) {
		return Result{}, false
	}
	r := c.results[c.pos]
	c.pos++
	return r, true
}

func (c *Cursor) Reset() { c.pos = 0 }

func (c *Cursor) Pos() int { return c.pos }

func (c *Cursor) Len() int { return len(c.results) }

func (c *Cursor) Results() []Result { return c.results }
