package user

type BaseRequest struct {
	Login    string `json:"login" minLength:"3" maxLength:"32"`
	Password string `json:"password" minLength:"8" maxLength:"64"`
}
