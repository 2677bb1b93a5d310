package action

// Operands is a consuming cursor over an operand sequence.
// Reading never mutates the underlying slice.
type Operands struct {
	op    string
	items []any
	pos   int
}

// NewOperands returns a cursor over items on behalf of the operation op.
func NewOperands(op string, items []any) *Operands {
	return &Operands{op: op, items: items}
}

// Op returns the opcode code the operands belong to.
func (o *Operands) Op() string {
	return o.op
}

// Len returns the number of operands not yet consumed.
func (o *Operands) Len() int {
	return len(o.items) - o.pos
}

// Next consumes the next operand. It fails when the sequence is exhausted.
func (o *Operands) Next(name string) (any, error) {
	if o.pos >= len(o.items) {
		return nil, o.wrap(&ArgError{Name: name, Expected: "a defined value", Actual: Undefined})
	}
	v := o.items[o.pos]
	o.pos++
	return v, nil
}

// Rest consumes every remaining operand.
func (o *Operands) Rest() []any {
	rest := o.items[o.pos:]
	o.pos = len(o.items)
	return rest
}

// String consumes the next operand as a string.
func (o *Operands) String(name string) (string, error) {
	v, err := o.Next(name)
	if err != nil {
		return "", err
	}
	s, err := CheckString(v, name)
	return s, o.wrap(err)
}

// Integer consumes the next operand as an integer.
func (o *Operands) Integer(name string) (int, error) {
	v, err := o.Next(name)
	if err != nil {
		return 0, err
	}
	i, err := CheckInteger(v, name)
	return i, o.wrap(err)
}

// Boolean consumes the next operand as a boolean.
func (o *Operands) Boolean(name string) (bool, error) {
	v, err := o.Next(name)
	if err != nil {
		return false, err
	}
	b, err := CheckBoolean(v, name)
	return b, o.wrap(err)
}

// Array consumes the next operand as a sequence.
func (o *Operands) Array(name string) ([]any, error) {
	v, err := o.Next(name)
	if err != nil {
		return nil, err
	}
	arr, err := CheckArray(v, name)
	return arr, o.wrap(err)
}

// Action consumes the next operand as a nested action.
func (o *Operands) Action(name string) (Action, error) {
	v, err := o.Next(name)
	if err != nil {
		return nil, err
	}
	a, err := AsAction(v, name)
	return a, o.wrap(err)
}

func (o *Operands) wrap(err error) error {
	if ae, ok := err.(*ArgError); ok && ae.Op == "" {
		ae.Op = o.op
	}
	return err
}
