package interp

import (
	"fmt"
	"strings"
)

type RecordKind int

const (
	RECORD_PROGRAM RecordKind = iota
	RECORD_PROCEDURE
)

func (kind RecordKind) String() string {
	switch kind {
	case RECORD_PROGRAM:
		return "PROGRAM"
	case RECORD_PROCEDURE:
		return "PROCEDURE"
	}
	return fmt.Sprintf("RecordKind(%d)", int(kind))
}

// ActivationRecord holds the bindings of one running program or procedure.
// Level is the lexical nesting level, StaticLink the record of the lexically
// enclosing routine (nil for the program).
type ActivationRecord struct {
	Name       string
	Kind       RecordKind
	Level      int
	StaticLink *ActivationRecord

	members map[string]Value
	order   []string
}

func NewActivationRecord(name string, kind RecordKind, level int, staticLink *ActivationRecord) *ActivationRecord {
	return &ActivationRecord{
		Name:       name,
		Kind:       kind,
		Level:      level,
		StaticLink: staticLink,
		members:    make(map[string]Value),
	}
}

func (ar *ActivationRecord) Set(name string, value Value) {
	if _, ok := ar.members[name]; !ok {
		ar.order = append(ar.order, name)
	}
	ar.members[name] = value
}

func (ar *ActivationRecord) Get(name string) (Value, bool) {
	value, ok := ar.members[name]
	return value, ok
}

// Bindings returns a copy of the record's members.
func (ar *ActivationRecord) Bindings() Bindings {
	bindings := make(Bindings, len(ar.members))
	for name, value := range ar.members {
		bindings[name] = value
	}
	return bindings
}

// Enclosing walks the static chain to the record at the given lexical level.
func (ar *ActivationRecord) Enclosing(level int) *ActivationRecord {
	record := ar
	for record != nil && record.Level != level {
		record = record.StaticLink
	}
	return record
}

func (ar *ActivationRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s %s\n", ar.Level, ar.Kind, ar.Name)
	for _, name := range ar.order {
		fmt.Fprintf(&b, "   %-20s: %s\n", name, ar.members[name])
	}
	return b.String()
}

type CallStack struct {
	records []*ActivationRecord
}

func NewCallStack() *CallStack {
	return &CallStack{}
}

func (stack *CallStack) Push(record *ActivationRecord) {
	stack.records = append(stack.records, record)
}

func (stack *CallStack) Pop() *ActivationRecord {
	if len(stack.records) == 0 {
		return nil
	}
	top := stack.records[len(stack.records)-1]
	stack.records = stack.records[:len(stack.records)-1]
	return top
}

func (stack *CallStack) Peek() *ActivationRecord {
	if len(stack.records) == 0 {
		return nil
	}
	return stack.records[len(stack.records)-1]
}

func (stack *CallStack) Len() int {
	return len(stack.records)
}

func (stack *CallStack) String() string {
	var b strings.Builder
	b.WriteString("CALL STACK\n")
	for i := len(stack.records) - 1; i >= 0; i-- {
		b.WriteString(stack.records[i].String())
		b.WriteString("\n")
	}
	return b.String()
}
