package utils

const (
	ItemsPerPage = 10

	InfoColor = 0x0099FF

	SlotsLoseColor = 0xFFA500
	SlotsWinColor  = 0x006600
	GreetingColor  = 0x00FF00
	FarewellColor  = 0xFF0000
)
