package api

// ValidationResult is the backend's answer to a scanned code. Rejections
// (expired or invalid codes) arrive with Success false and an Error message.
type ValidationResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Expired  bool   `json:"expired,omitempty"`
	Kind     string `json:"tipo,omitempty"`
	UserType string `json:"usuario_tipo,omitempty"`
	Name     string `json:"nombre,omitempty"`
	Surname  string `json:"apellido,omitempty"`
	Email    string `json:"email,omitempty"`
	Date     string `json:"fecha,omitempty"`
	Time     string `json:"hora,omitempty"`
	Message  string `json:"message,omitempty"`
}

type Counts struct {
	Entries int `json:"entries"`
	Exits   int `json:"exits"`
}

// Stats are today's entry and exit counts.
type Stats struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Date     string `json:"date"`
	Students Counts `json:"students"`
	Helpers  Counts `json:"helpers"`
}

// Record is one registered entry or exit.
type Record struct {
	UserType string `json:"tipo_usuario"`
	Name     string `json:"nombre"`
	Surname  string `json:"apellido"`
	Email    string `json:"email"`
	Date     string `json:"fecha"`
	Time     string `json:"hora"`
	Kind     string `json:"tipo"`
}

type recordsResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Records []Record `json:"records"`
}

// Verification reports whether an email belongs to a registered user.
type Verification struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Exists  bool   `json:"exists"`
	Active  bool   `json:"active"`
}

type healthResponse struct {
	Status string `json:"status"`
}
