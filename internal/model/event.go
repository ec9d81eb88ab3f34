package model

// EventConfig holds the active event configuration.  The internal id and
// title are stamped onto newly created tickets and inventory entries so
// that records remain attributable after the configuration changes.
//
// Fields:
//  EventTitle      – display title of the event.
//  EventInternalID – stable identifier stamped on denormalized records.
//  EventDate       – human-readable date of the event.
//  Location        – venue description.
//  ReferencePrice  – "real" price shown struck through in listings.
//  FinalPrice      – sale price applied to new tickets, in pesos.
type EventConfig struct {
	EventTitle      string `json:"event_title"`       // event_config.event_title
	EventInternalID string `json:"event_internal_id"` // event_config.event_internal_id
	EventDate       string `json:"event_date"`        // event_config.event_date
	Location        string `json:"location"`          // event_config.location
	ReferencePrice  int64  `json:"reference_price"`   // event_config.reference_price
	FinalPrice      int64  `json:"final_price"`       // event_config.final_price
}
