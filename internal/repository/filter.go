package repository

import (
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type condOp int

const (
	opEq condOp = iota
	opGt
	opExists
)

// Cond is a single structural predicate over one document field.
type Cond struct {
	Field string
	op    condOp
	Value any
}

// Eq matches documents whose field equals v. Eq(field, nil) also matches
// documents that do not carry the field at all.
func Eq(field string, v any) Cond { return Cond{Field: field, op: opEq, Value: v} }

// Gt matches documents whose numeric field is strictly greater than v.
func Gt(field string, v any) Cond { return Cond{Field: field, op: opGt, Value: v} }

// Exists matches documents that carry (or lack, when present is false) the field.
func Exists(field string, present bool) Cond {
	return Cond{Field: field, op: opExists, Value: present}
}

// Filter is a conjunction of conditions. The zero value matches everything.
type Filter []Cond

// Where builds a filter from conds.
func Where(conds ...Cond) Filter { return Filter(conds) }

// And returns a copy of f extended with conds.
func (f Filter) And(conds ...Cond) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

// BSON renders the filter as a MongoDB query document.
func (f Filter) BSON() bson.D {
	d := bson.D{}
	for _, c := range f {
		switch c.op {
		case opGt:
			d = append(d, bson.E{Key: c.Field, Value: bson.D{{Key: "$gt", Value: c.Value}}})
		case opExists:
			d = append(d, bson.E{Key: c.Field, Value: bson.D{{Key: "$exists", Value: c.Value}}})
		default:
			d = append(d, bson.E{Key: c.Field, Value: c.Value})
		}
	}
	return d
}

// Match evaluates the filter against a decoded document.
func (f Filter) Match(doc bson.M) bool {
	for _, c := range f {
		v, ok := doc[c.Field]
		switch c.op {
		case opExists:
			if want, _ := c.Value.(bool); ok != want {
				return false
			}
		case opGt:
			if _, isNum := toFloat(v); !ok || !isNum {
				return false
			}
			if compareValues(v, c.Value) <= 0 {
				return false
			}
		default:
			if !ok {
				if c.Value != nil {
					return false
				}
				continue
			}
			if !equalValues(v, c.Value) {
				return false
			}
		}
	}
	return true
}

// Update is a field patch: Set replaces values, Inc adds to numeric fields.
type Update struct {
	set bson.D
	inc bson.D
}

// NewUpdate starts an empty patch.
func NewUpdate() *Update { return &Update{} }

// Set records a field assignment.
func (u *Update) Set(field string, v any) *Update {
	u.set = append(u.set, bson.E{Key: field, Value: v})
	return u
}

// Inc records a numeric increment.
func (u *Update) Inc(field string, n int) *Update {
	u.inc = append(u.inc, bson.E{Key: field, Value: n})
	return u
}

// Empty reports whether the patch changes nothing.
func (u *Update) Empty() bool { return u == nil || (len(u.set) == 0 && len(u.inc) == 0) }

// Fields lists the fields the patch touches, in insertion order.
func (u *Update) Fields() []string {
	var out []string
	for _, e := range u.set {
		out = append(out, e.Key)
	}
	for _, e := range u.inc {
		out = append(out, e.Key)
	}
	return out
}

// BSON renders the patch as a MongoDB update document.
func (u *Update) BSON() bson.D {
	d := bson.D{}
	if len(u.set) > 0 {
		d = append(d, bson.E{Key: "$set", Value: u.set})
	}
	if len(u.inc) > 0 {
		d = append(d, bson.E{Key: "$inc", Value: u.inc})
	}
	return d
}

// apply mutates doc in place and reports whether any value changed.
func (u *Update) apply(doc bson.M) bool {
	changed := false
	for _, e := range u.set {
		old, ok := doc[e.Key]
		nv := normalize(e.Value)
		if !ok || !equalValues(old, nv) {
			changed = true
		}
		doc[e.Key] = nv
	}
	for _, e := range u.inc {
		delta, _ := toFloat(e.Value)
		if delta == 0 {
			continue
		}
		changed = true
		switch o := doc[e.Key].(type) {
		case float64:
			doc[e.Key] = o + delta
		default:
			base, _ := toFloat(o)
			doc[e.Key] = int64(base) + int64(delta)
		}
	}
	return changed
}

// SortOrder orders Find results by one field; ties always fall back to
// _id ascending, which is insertion order for generated ObjectIDs.
type SortOrder struct {
	Field string
	Desc  bool
}

// FindOption customises a Find call.
type FindOption func(*findOptions)

type findOptions struct {
	sort *SortOrder
}

// SortBy orders results by field.
func SortBy(field string, desc bool) FindOption {
	return func(o *findOptions) { o.sort = &SortOrder{Field: field, Desc: desc} }
}

func collectFindOptions(opts []FindOption) findOptions {
	var fo findOptions
	for _, opt := range opts {
		opt(&fo)
	}
	return fo
}

func (s SortOrder) bson() bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: 1}}
}

// sortDocs stably orders docs; docs must already be in insertion order.
func sortDocs(docs []bson.M, s SortOrder) {
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i][s.Field], docs[j][s.Field])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders numbers numerically, strings lexically, times by
// instant and puts missing values first.
func compareValues(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return compareValues(int64(av), int64(bv))
		}
	case primitive.ObjectID:
		if bv, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(av.Hex(), bv.Hex())
		}
	}
	switch {
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	return 0
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize converts Go values that decode differently from how they were
// written (time.Time becomes primitive.DateTime) so comparisons line up
// with what a real round trip through BSON produces.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out["v"]
}
