package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextInput
	ModeFileInput
	ModeConfirm
)

// InputAction is what Enter does with the text typed in ModeTextInput.
type InputAction int

const (
	InputRename InputAction = iota
	InputAddFloor
	InputRenameFloor
	InputAddZone
	InputRenameZone
	InputExportEntity
	InputImportEntity
)

type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmImport
	ConfirmClear
	ConfirmDeleteZone
	ConfirmDeleteFloor
	ConfirmImportEntity
)

// Screen pixels per terminal cell, the same metrics the PNG font uses.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	headerRows = 1
	statusRows = 1
	// cells per arrow key press
	panStep = 4
)
