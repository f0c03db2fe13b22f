// Package interact turns pointer and keyboard input into document edits.
//
// A [Controller] runs one gesture at a time through a two-state machine:
//
//	Idle --PointerDown(element)--> Dragging --PointerMove*--> Dragging --PointerUp--> Idle
//
// At pointer-down the controller records the pointer position together with
// the element's position, size and rotation. Every pointer-move recomputes
// the element from those start values and the total pointer displacement,
// so a gesture ends in the same place however many move events it was split
// into. Pointer coordinates are screen pixels relative to the top-left
// corner of the displayed page; the [Viewport] zoom undoes on-screen scaling.
//
// Releasing the pointer commits the last computed value. There is no
// cancel.
package interact
