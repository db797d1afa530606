package models

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type GenerateForm struct {
	CustomerName string `form:"customer_name"`
	Destination  string `form:"destination"`
	ReferenceNo  string `form:"reference_no"`
}
