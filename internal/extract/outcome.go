package extract

import "fmt"

// ItemFailure records an item (or a whole group when Item is -1) that could
// not be extracted.
type ItemFailure struct {
	Group int
	Item  int
	Err   error
}

func (f ItemFailure) Error() string {
	if f.Item < 0 {
		return fmt.Sprintf("group %d: %s", f.Group, f.Err)
	}
	return fmt.Sprintf("group %d, item %d: %s", f.Group, f.Item, f.Err)
}

func (f ItemFailure) Unwrap() error {
	return f.Err
}

// Outcome is either a value or a failure for a single item.
type Outcome[T any] struct {
	Value   T
	Failure *ItemFailure
}

func Success[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value}
}

func Failed[T any](group, item int, err error) Outcome[T] {
	return Outcome[T]{Failure: &ItemFailure{Group: group, Item: item, Err: err}}
}

// Partition splits outcomes into successful values and failures, keeping
// their relative order.
func Partition[T any](outcomes []Outcome[T]) ([]T, []ItemFailure) {
	var values []T
	var failures []ItemFailure
	for _, o := range outcomes {
		if o.Failure != nil {
			failures = append(failures, *o.Failure)
			continue
		}
		values = append(values, o.Value)
	}
	return values, failures
}
