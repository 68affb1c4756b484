package tui

type View int

const (
	ViewTabs View = iota
	ViewReader
	ViewAddSource
	ViewRenameSource
	ViewDeleteConfirm
	ViewSearch
)
