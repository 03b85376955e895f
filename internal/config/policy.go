package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PolicyConfig is the attendance and payroll policy. Values come from the
// environment and may be overridden field by field by POLICY_FILE.
type PolicyConfig struct {
	DefaultShiftStart      string `yaml:"default_shift_start"`
	DefaultShiftEnd        string `yaml:"default_shift_end"`
	Timezone               string `yaml:"timezone"`
	TaxRate                string `yaml:"tax_rate"`
	StandardMonthlyMinutes int64  `yaml:"standard_monthly_minutes"`
}

// policyFile mirrors PolicyConfig with optional fields so a file can
// override only what it names.
type policyFile struct {
	DefaultShiftStart      *string `yaml:"default_shift_start"`
	DefaultShiftEnd        *string `yaml:"default_shift_end"`
	Timezone               *string `yaml:"timezone"`
	TaxRate                *string `yaml:"tax_rate"`
	StandardMonthlyMinutes *int64  `yaml:"standard_monthly_minutes"`
}

func loadPolicy() (PolicyConfig, error) {
	minutes, err := strconv.ParseInt(getEnv("STANDARD_MONTHLY_MINUTES", "9600"), 10, 64)
	if err != nil {
		return PolicyConfig{}, &apperror.ConfigError{Key: "STANDARD_MONTHLY_MINUTES", Reason: err.Error()}
	}

	p := PolicyConfig{
		DefaultShiftStart:      getEnv("DEFAULT_SHIFT_START", "09:00"),
		DefaultShiftEnd:        getEnv("DEFAULT_SHIFT_END", "17:00"),
		Timezone:               getEnv("TIMEZONE", "UTC"),
		TaxRate:                getEnv("TAX_RATE", "0.1"),
		StandardMonthlyMinutes: minutes,
	}

	if path := getEnv("POLICY_FILE", ""); path != "" {
		if err := p.applyFile(path); err != nil {
			return PolicyConfig{}, err
		}
	}
	return p, nil
}

func (p *PolicyConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &apperror.ConfigError{Key: "POLICY_FILE", Reason: err.Error()}
	}

	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return &apperror.ConfigError{Key: "POLICY_FILE", Reason: fmt.Sprintf("%s: %v", path, err)}
	}

	if f.DefaultShiftStart != nil {
		p.DefaultShiftStart = *f.DefaultShiftStart
	}
	if f.DefaultShiftEnd != nil {
		p.DefaultShiftEnd = *f.DefaultShiftEnd
	}
	if f.Timezone != nil {
		p.Timezone = *f.Timezone
	}
	if f.TaxRate != nil {
		p.TaxRate = *f.TaxRate
	}
	if f.StandardMonthlyMinutes != nil {
		p.StandardMonthlyMinutes = *f.StandardMonthlyMinutes
	}
	return nil
}

// Validate reports the first malformed policy value as a ConfigError.
func (p PolicyConfig) Validate() error {
	if _, err := p.ScheduleDefaults(); err != nil {
		return err
	}
	_, err := p.PayrollPolicy()
	return err
}

func (p PolicyConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, &apperror.ConfigError{Key: "TIMEZONE", Reason: err.Error()}
	}
	return loc, nil
}

// ScheduleDefaults is the shift used when no assignment covers a date.
func (p PolicyConfig) ScheduleDefaults() (schedule.Defaults, error) {
	start, err := schedule.ParseTimeOfDay(p.DefaultShiftStart)
	if err != nil {
		return schedule.Defaults{}, &apperror.ConfigError{Key: "DEFAULT_SHIFT_START", Reason: err.Error()}
	}
	end, err := schedule.ParseTimeOfDay(p.DefaultShiftEnd)
	if err != nil {
		return schedule.Defaults{}, &apperror.ConfigError{Key: "DEFAULT_SHIFT_END", Reason: err.Error()}
	}
	if end <= start {
		return schedule.Defaults{}, &apperror.ConfigError{
			Key:    "DEFAULT_SHIFT_END",
			Reason: fmt.Sprintf("end %s is not after start %s", end, start),
		}
	}
	loc, err := p.Location()
	if err != nil {
		return schedule.Defaults{}, err
	}
	return schedule.Defaults{Start: start, End: end, Location: loc}, nil
}

func (p PolicyConfig) PayrollPolicy() (payroll.Policy, error) {
	rate, err := decimal.NewFromString(p.TaxRate)
	if err != nil {
		return payroll.Policy{}, &apperror.ConfigError{Key: "TAX_RATE", Reason: err.Error()}
	}
	policy := payroll.Policy{TaxRate: rate, StandardMonthlyMinutes: p.StandardMonthlyMinutes}
	if err := policy.Validate(); err != nil {
		return payroll.Policy{}, err
	}
	return policy, nil
}
