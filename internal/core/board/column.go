package board

// Column is a named, ordered collection of tasks. Insertion order is display
// order.
type Column struct {
	name  string
	tasks []Task
}

// NewColumn creates an empty column.
func NewColumn(name string) *Column {
	return &Column{name: name}
}

// Name returns the column name, which is also the status of its tasks.
func (c *Column) Name() string {
	return c.name
}

// Len returns the number of tasks in the column.
func (c *Column) Len() int {
	return len(c.tasks)
}

// Append adds a task to the end of the column.
func (c *Column) Append(t Task) {
	c.tasks = append(c.tasks, t)
}

// RemoveByID removes and returns the task with the given id.
func (c *Column) RemoveByID(id string) (Task, error) {
	for i, t := range c.tasks {
		if t.ID == id {
			c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

// Tasks returns a copy of the column's tasks in display order.
func (c *Column) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.clone()
	}
	return out
}

func (c *Column) index(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
