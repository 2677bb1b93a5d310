/*
Package action defines the wire encoding of hyperway actions.

An action is a JSON array whose first element is a short opcode string and
whose remaining elements are operands. An operand is either a literal or a
nested action:

	["W1", ["EI", ["JS", "dialog"]], ["IV", "HTMLDialogElement", "showModal", []]]

The opcode set is closed (see Opcode). Evaluation lives in the runtime; this
package only provides the data model, a consuming cursor over operands, the
value guards shared by every operation, and builders for authoring actions
from Go code.

# Consuming evaluation

Operands are read front-to-back through an Operands cursor, each at most once
per evaluation. The Action value itself is never mutated by reading. Anything
that stores an action for later re-entry (closures, delayed actions) keeps a
Clone so that later evaluations never observe aliased operands.
*/
package action
