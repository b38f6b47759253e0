package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/car-rental/internal/models"
)

const settingColumns = `company_name, company_email, company_phone, company_address, currency,
			      cancellation_window_hours, theme, language, report_format, report_period, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (*models.Setting, error) {
	var st models.Setting
	if err := row.Scan(&st.CompanyName, &st.CompanyEmail, &st.CompanyPhone, &st.CompanyAddress,
		&st.Currency, &st.CancellationWindowHours, &st.Theme, &st.Language, &st.ReportFormat,
		&st.ReportPeriod, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetSetting возвращает настройки компании, создавая строку с умолчаниями при первом чтении.
// Единственность строки обеспечивает первичный ключ singleton, поэтому
// одновременные первые чтения не создают дубликатов.
func (s *Storage) GetSetting(ctx context.Context) (*models.Setting, error) {
	const op = "storage.GetSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `INSERT INTO settings DEFAULT VALUES ON CONFLICT (singleton) DO NOTHING`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st, err := scanSetting(s.DB.QueryRowContext(ctx, `SELECT `+settingColumns+` FROM settings WHERE singleton`))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return st, nil
}

// SaveSetting записывает настройки целиком.
func (s *Storage) SaveSetting(ctx context.Context, st models.Setting) (*models.Setting, error) {
	const op = "storage.SaveSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (singleton, company_name, company_email, company_phone, company_address,
			      currency, cancellation_window_hours, theme, language, report_format, report_period, updated_at)
			  VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			  ON CONFLICT (singleton) DO UPDATE SET
			      company_name = EXCLUDED.company_name,
			      company_email = EXCLUDED.company_email,
			      company_phone = EXCLUDED.company_phone,
			      company_address = EXCLUDED.company_address,
			      currency = EXCLUDED.currency,
			      cancellation_window_hours = EXCLUDED.cancellation_window_hours,
			      theme = EXCLUDED.theme,
			      language = EXCLUDED.language,
			      report_format = EXCLUDED.report_format,
			      report_period = EXCLUDED.report_period,
			      updated_at = EXCLUDED.updated_at
			  RETURNING ` + settingColumns
	saved, err := scanSetting(s.DB.QueryRowContext(ctx, query,
		st.CompanyName, st.CompanyEmail, st.CompanyPhone, st.CompanyAddress, st.Currency,
		st.CancellationWindowHours, st.Theme, st.Language, st.ReportFormat, st.ReportPeriod))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return saved, nil
}
