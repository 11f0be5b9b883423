package employees

type Employee struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
	JobTitle     string `json:"jobTitle"`
}
