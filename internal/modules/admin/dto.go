package admin

type UpdateTourStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type Stats struct {
	Bookings    map[string]int64 `json:"bookings"`
	Reviews     map[string]int64 `json:"reviews"`
	LiveClients int              `json:"live_clients"`
}
