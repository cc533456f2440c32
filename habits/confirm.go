// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package habits

import "fmt"

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

var (
	Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })
	Declined  Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Prompts shown before destructive operations
const (
	DeletePrompt = "Deleting this habit also clears all of its completion history. Delete it?"
	ImportPrompt = "Importing overwrites all existing habits and history. Continue?"
)

// ResetPrompt is the prompt for clearing the completions recorded on today.
func ResetPrompt(today string) string {
	return fmt.Sprintf("Clear all completions recorded today (%s)?", today)
}
