package trellis

// Positioned is implemented by values that own a Position.
type Positioned interface {
	GetPosition() *Position
}

// Member wraps a Positioned with caller data that is handed to group
// callbacks.
type Member struct {
	Position Positioned
	Data     any
}

// GetPosition implements Positioned.
func (m Member) GetPosition() *Position {
	if m.Position == nil {
		return nil
	}
	return m.Position.GetPosition()
}

// GroupItem is passed to per-entry group callbacks.
type GroupItem struct {
	Index    int
	Position *Position
	Data     any
}

// Group runs animation operations across many positions.
type Group struct {
	entries []Positioned
}

// NewGroup returns a group over entries.
func NewGroup(entries ...Positioned) *Group {
	return &Group{entries: entries}
}

// Add appends entries to the group.
func (g *Group) Add(entries ...Positioned) {
	g.entries = append(g.entries, entries...)
}

// Len returns the number of entries.
func (g *Group) Len() int { return len(g.entries) }

// each calls fn for every entry that resolves to a Position. Entries without
// one are logged and skipped. It stops at the first error.
func (g *Group) each(op string, fn func(GroupItem) error) error {
	for i, e := range g.entries {
		item := GroupItem{Index: i}
		if m, ok := e.(Member); ok {
			item.Data = m.Data
		}
		if e != nil {
			item.Position = e.GetPosition()
		}
		if item.Position == nil {
			logger().Warn("group entry has no position", "op", op, "index", i)
			continue
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

// To tweens every position to dest.
func (g *Group) To(dest Update, opts ...TweenOption) (*GroupControl, error) {
	return g.ToEach(func(GroupItem) (Update, []TweenOption) { return dest, opts })
}

// ToEach tweens every position to the update returned by fn. A nil update
// skips the entry.
func (g *Group) ToEach(fn func(GroupItem) (Update, []TweenOption)) (*GroupControl, error) {
	gc := &GroupControl{}
	err := g.each("to", func(item GroupItem) error {
		u, opts := fn(item)
		if u == nil {
			return nil
		}
		c, err := item.Position.animate.To(u, opts...)
		if err != nil {
			return err
		}
		gc.add(c)
		return nil
	})
	return gc.seal(err)
}

// From tweens every position from src to its current geometry.
func (g *Group) From(src Update, opts ...TweenOption) (*GroupControl, error) {
	return g.FromEach(func(GroupItem) (Update, []TweenOption) { return src, opts })
}

// FromEach tweens every position from the update returned by fn. A nil
// update skips the entry.
func (g *Group) FromEach(fn func(GroupItem) (Update, []TweenOption)) (*GroupControl, error) {
	gc := &GroupControl{}
	err := g.each("from", func(item GroupItem) error {
		u, opts := fn(item)
		if u == nil {
			return nil
		}
		c, err := item.Position.animate.From(u, opts...)
		if err != nil {
			return err
		}
		gc.add(c)
		return nil
	})
	return gc.seal(err)
}

// FromTo tweens every position from src to dest.
func (g *Group) FromTo(src, dest Update, opts ...TweenOption) (*GroupControl, error) {
	return g.FromToEach(func(GroupItem) (Update, Update, []TweenOption) { return src, dest, opts })
}

// FromToEach tweens every position between the updates returned by fn. A
// nil source or destination skips the entry.
func (g *Group) FromToEach(fn func(GroupItem) (src, dest Update, opts []TweenOption)) (*GroupControl, error) {
	gc := &GroupControl{}
	err := g.each("fromTo", func(item GroupItem) error {
		src, dest, opts := fn(item)
		if src == nil || dest == nil {
			return nil
		}
		c, err := item.Position.animate.FromTo(src, dest, opts...)
		if err != nil {
			return err
		}
		gc.add(c)
		return nil
	})
	return gc.seal(err)
}

// QuickTo creates a QuickTo over keys for every position.
func (g *Group) QuickTo(keys []Key, opts ...TweenOption) (*GroupQuickTo, error) {
	gq := &GroupQuickTo{keys: append([]Key(nil), keys...)}
	err := g.each("quickTo", func(item GroupItem) error {
		q, err := item.Position.animate.QuickTo(keys, opts...)
		if err != nil {
			return err
		}
		gq.items = append(gq.items, item)
		gq.quick = append(gq.quick, q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gq, nil
}

// Cancel cancels every tween of every position in the group.
func (g *Group) Cancel() {
	_ = g.each("cancel", func(item GroupItem) error {
		item.Position.animate.Cancel()
		return nil
	})
}

// IsScheduled reports whether any position of the group has a tween.
func (g *Group) IsScheduled() bool {
	found := false
	_ = g.each("isScheduled", func(item GroupItem) error {
		found = found || item.Position.animate.IsScheduled()
		return nil
	})
	return found
}

// ScheduledItem lists the outstanding tween controls of one group entry.
type ScheduledItem struct {
	GroupItem
	Controls []*Control
}

// Scheduled returns the outstanding controls of each entry that has any.
func (g *Group) Scheduled() []ScheduledItem {
	var out []ScheduledItem
	_ = g.each("scheduled", func(item GroupItem) error {
		if cs := item.Position.animate.Scheduled(); len(cs) > 0 {
			out = append(out, ScheduledItem{GroupItem: item, Controls: cs})
		}
		return nil
	})
	return out
}

// GroupControl aggregates the controls of a group operation. It is done
// when every member is done, and cancelled if any member was cancelled.
type GroupControl struct {
	controls  []*Control
	remaining int
	done      chan struct{}
	finished  bool
	cancelled bool
}

func (gc *GroupControl) add(c *Control) {
	gc.controls = append(gc.controls, c)
}

// seal wires completion tracking once every member is known. On err the
// members created so far are cancelled.
func (gc *GroupControl) seal(err error) (*GroupControl, error) {
	if err != nil {
		for _, c := range gc.controls {
			c.Cancel()
		}
		return nil, err
	}
	gc.remaining = len(gc.controls)
	if gc.remaining == 0 {
		gc.finished = true
		return gc, nil
	}
	for _, c := range gc.controls {
		c.whenDone(func() {
			if c.cancelled {
				gc.cancelled = true
			}
			gc.remaining--
			if gc.remaining == 0 {
				gc.finish()
			}
		})
	}
	return gc, nil
}

func (gc *GroupControl) finish() {
	gc.finished = true
	if gc.done != nil {
		close(gc.done)
	}
}

// Controls returns the member controls.
func (gc *GroupControl) Controls() []*Control { return gc.controls }

// Done returns a channel closed when every member has finished.
func (gc *GroupControl) Done() <-chan struct{} {
	if gc.done == nil {
		gc.done = make(chan struct{})
		if gc.finished {
			close(gc.done)
		}
	}
	return gc.done
}

// Cancelled reports whether any member was cancelled.
func (gc *GroupControl) Cancelled() bool { return gc.cancelled }

// IsActive reports whether any member is running.
func (gc *GroupControl) IsActive() bool {
	for _, c := range gc.controls {
		if c.IsActive() {
			return true
		}
	}
	return false
}

// IsFinished reports whether every member has finished.
func (gc *GroupControl) IsFinished() bool { return gc.finished }

// Cancel cancels every member.
func (gc *GroupControl) Cancel() {
	for _, c := range gc.controls {
		c.Cancel()
	}
}

var (
	_ AnimationControl = (*Control)(nil)
	_ AnimationControl = (*GroupControl)(nil)
)

// GroupQuickTo drives one QuickTo per group entry.
type GroupQuickTo struct {
	keys  []Key
	items []GroupItem
	quick []*QuickTo
}

// Keys returns the animated keys.
func (gq *GroupQuickTo) Keys() []Key { return append([]Key(nil), gq.keys...) }

// To retargets every member with the same positional values.
func (gq *GroupQuickTo) To(values ...float64) {
	for _, q := range gq.quick {
		q.To(values...)
	}
}

// ToUpdate retargets every member with u.
func (gq *GroupQuickTo) ToUpdate(u Update) error {
	for _, q := range gq.quick {
		if err := q.ToUpdate(u); err != nil {
			return err
		}
	}
	return nil
}

// ToEach retargets each member with the update returned by fn. A nil update
// skips the member.
func (gq *GroupQuickTo) ToEach(fn func(GroupItem) Update) error {
	for i, q := range gq.quick {
		u := fn(gq.items[i])
		if u == nil {
			continue
		}
		if err := q.ToUpdate(u); err != nil {
			return err
		}
	}
	return nil
}

// SetOptions retunes every member.
func (gq *GroupQuickTo) SetOptions(opts ...TweenOption) error {
	for _, q := range gq.quick {
		if err := q.SetOptions(opts...); err != nil {
			return err
		}
	}
	return nil
}
