/*
Package dom is the live document model the runtime acts on.

Documents are golang.org/x/net/html trees. Elements, the window and the
document are exposed to actions through a small closed set of receiver
variants. Each variant declares a capability set of type names (for example a
form element is a Node, an Element, an HTMLElement and an HTMLFormElement) and a
fixed table of properties and methods. Type checks are capability checks, not
inheritance walks.
*/
package dom
