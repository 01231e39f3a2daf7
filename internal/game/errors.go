package game

import "errors"

// Lookup and ledger failures. None of these are fatal to the simulation;
// callers decide whether to surface them.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnknownFacilityType  = errors.New("unknown facility type")
	ErrUnknownShipType      = errors.New("unknown ship type")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrMalformedConfig      = errors.New("malformed config")

	ErrMissionActive  = errors.New("mission already in progress")
	ErrSlotFull       = errors.New("no free slot")
	ErrNotPurchasable = errors.New("facility cannot be bought or sold")
	ErrSingleton      = errors.New("only one allowed")
)
