package user

type RegisterReq struct {
	Fullname   string `json:"fullname" validate:"required"`
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,emailfmt"`
	Password   string `json:"password" validate:"required"`
	Preference string `json:"preference" validate:"required"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PreferenceReq struct {
	Preference string `json:"preference" validate:"required"`
}
