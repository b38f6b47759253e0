package models

import "time"

// Setting единственный документ с настройками компании.
type Setting struct {
	CompanyName             string    `json:"companyName"`
	CompanyEmail            string    `json:"companyEmail"`
	CompanyPhone            string    `json:"companyPhone"`
	CompanyAddress          string    `json:"companyAddress"`
	Currency                string    `json:"currency"`
	CancellationWindowHours int       `json:"cancellationWindowHours"`
	Theme                   string    `json:"theme"`
	Language                string    `json:"language"`
	ReportFormat            string    `json:"reportFormat"`
	ReportPeriod            string    `json:"reportPeriod"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// PublicSetting часть настроек, доступная без авторизации.
type PublicSetting struct {
	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyAddress string `json:"companyAddress"`
}

// Public возвращает публичную часть настроек.
func (s Setting) Public() PublicSetting {
	return PublicSetting{
		CompanyName:    s.CompanyName,
		CompanyEmail:   s.CompanyEmail,
		CompanyPhone:   s.CompanyPhone,
		CompanyAddress: s.CompanyAddress,
	}
}

// SettingPatch частичное обновление настроек, nil поля не меняются.
type SettingPatch struct {
	CompanyName             *string `json:"companyName" validate:"omitempty,min=1,max=200"`
	CompanyEmail            *string `json:"companyEmail" validate:"omitempty,email"`
	CompanyPhone            *string `json:"companyPhone" validate:"omitempty,max=32"`
	CompanyAddress          *string `json:"companyAddress" validate:"omitempty,max=300"`
	Currency                *string `json:"currency" validate:"omitempty,len=3"`
	CancellationWindowHours *int    `json:"cancellationWindowHours" validate:"omitempty,min=0,max=720"`
	Theme                   *string `json:"theme" validate:"omitempty,oneof=light dark"`
	Language                *string `json:"language" validate:"omitempty,oneof=uz ru en"`
	ReportFormat            *string `json:"reportFormat" validate:"omitempty,oneof=pdf xlsx csv"`
	ReportPeriod            *string `json:"reportPeriod" validate:"omitempty,oneof=daily weekly monthly"`
}

// Apply накладывает изменения на настройки.
func (p SettingPatch) Apply(s Setting) Setting {
	if p.CompanyName != nil {
		s.CompanyName = *p.CompanyName
	}
	if p.CompanyEmail != nil {
		s.CompanyEmail = *p.CompanyEmail
	}
	if p.CompanyPhone != nil {
		s.CompanyPhone = *p.CompanyPhone
	}
	if p.CompanyAddress != nil {
		s.CompanyAddress = *p.CompanyAddress
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.CancellationWindowHours != nil {
		s.CancellationWindowHours = *p.CancellationWindowHours
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.ReportFormat != nil {
		s.ReportFormat = *p.ReportFormat
	}
	if p.ReportPeriod != nil {
		s.ReportPeriod = *p.ReportPeriod
	}
	return s
}
