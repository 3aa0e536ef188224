package models

import (
	"github.com/gizahealth/inspector/internal/errors"
	"log/slog"
	"strings"
)

var ErrInvalidFacility = errors.NewSentinel("invalid facility")

// FacilityType classifies facilities for licensing and dashboard statistics.
type FacilityType string

const (
	FacilityPrivateClinic     FacilityType = "Private Clinic"
	FacilitySpecializedClinic FacilityType = "Specialized Clinic"
	// FacilitySpecializedCenter covers surgery, incubators and ICU.
	FacilitySpecializedCenter FacilityType = "Specialized Medical Center"
	FacilityPrivateHospital   FacilityType = "Private Hospital"
	FacilityLab               FacilityType = "Laboratory"
	FacilityRadiologyCenter   FacilityType = "Radiology Center"
	FacilityDialysisCenter    FacilityType = "Dialysis Center"
	FacilityBloodBank         FacilityType = "Blood Bank"
	FacilityPsychiatryCenter  FacilityType = "Psychiatry & Addiction Center"
	FacilityPhysicalTherapy   FacilityType = "Physical Therapy Center"
	FacilityOpticalShop       FacilityType = "Optical Shop"
	FacilityOther             FacilityType = "Other"
)

// FacilityTypes lists all facility types in declaration order.
var FacilityTypes = []FacilityType{
	FacilityPrivateClinic,
	FacilitySpecializedClinic,
	FacilitySpecializedCenter,
	FacilityPrivateHospital,
	FacilityLab,
	FacilityRadiologyCenter,
	FacilityDialysisCenter,
	FacilityBloodBank,
	FacilityPsychiatryCenter,
	FacilityPhysicalTherapy,
	FacilityOpticalShop,
	FacilityOther,
}

var facilityTypeLabels = map[FacilityType]Text{
	FacilityPrivateClinic:     {EN: "Private Clinic", AR: "عيادة خاصة"},
	FacilitySpecializedClinic: {EN: "Specialized Clinic", AR: "عيادات تخصصية"},
	FacilitySpecializedCenter: {EN: "Specialized Medical Center (ICU/Surgery)", AR: "مركز طبى تخصصى (عمليات-رعاية)"},
	FacilityPrivateHospital:   {EN: "Private Hospital", AR: "مستشفى خاص"},
	FacilityLab:               {EN: "Laboratory", AR: "معمل تحاليل"},
	FacilityRadiologyCenter:   {EN: "Radiology Center", AR: "مركز أشعة"},
	FacilityDialysisCenter:    {EN: "Dialysis Center", AR: "مركز غسيل كلوى"},
	FacilityBloodBank:         {EN: "Blood Bank", AR: "بنك دم"},
	FacilityPsychiatryCenter:  {EN: "Psychiatry & Addiction Center", AR: "مصحة نفسى وعلاج ادمان"},
	FacilityPhysicalTherapy:   {EN: "Physical Therapy Center", AR: "مركز علاج طبيعى"},
	FacilityOpticalShop:       {EN: "Optical Shop", AR: "محل نظارات"},
	FacilityOther:             {EN: "Other", AR: "أخرى"},
}

// Valid reports whether t is one of the known facility types.
func (t FacilityType) Valid() bool {
	_, ok := facilityTypeLabels[t]
	return ok
}

// Label returns the translated facility type.
func (t FacilityType) Label(lang Language) string {
	if label, ok := facilityTypeLabels[t]; ok {
		return label.In(lang)
	}
	return string(t)
}

// Facility is a medical establishment under the directorate's supervision.
type Facility struct {
	ID          string       `json:"id" yaml:"id"`
	Name        Text         `json:"name" yaml:"name"`
	Type        FacilityType `json:"type" yaml:"type"`
	Specialties []string     `json:"specialties" yaml:"specialties"`
	Director    string       `json:"director" yaml:"director"`
	Owner       string       `json:"owner" yaml:"owner"`
	// LicenseNumber is empty when the facility is not licensed.
	LicenseNumber string    `json:"licenseNumber" yaml:"licenseNumber"`
	IsLicensed    bool      `json:"isLicensed" yaml:"isLicensed"`
	Address       string    `json:"address" yaml:"address"`
	Governorate   string    `json:"governorate" yaml:"governorate"`
	Location      *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Matches reports whether the facility matches a free-text search over its names and license number.
// The English name is matched case-insensitively. An empty term matches everything.
func (f Facility) Matches(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Name.EN), strings.ToLower(term)) ||
		strings.Contains(f.Name.AR, term) ||
		strings.Contains(f.LicenseNumber, term)
}

// LicenseLabel returns the license number or a translated "unlicensed" marker.
func (f Facility) LicenseLabel(lang Language) string {
	if f.LicenseNumber != "" {
		return f.LicenseNumber
	}
	return Text{EN: "Unlicensed", AR: "غير مرخصة"}.In(lang)
}

const (
	pendingLicense     = "PENDING"
	notAvailable       = "N/A"
	defaultGovernorate = "Giza"
)

// FacilityDraft is the input of the add-facility form.
type FacilityDraft struct {
	NameEN        string       `json:"nameEn"`
	NameAR        string       `json:"nameAr"`
	Type          FacilityType `json:"type"`
	LicenseNumber string       `json:"licenseNumber"`
	IsLicensed    bool         `json:"isLicensed"`
	Director      string       `json:"director"`
	Owner         string       `json:"owner"`
	Address       string       `json:"address"`
	Governorate   string       `json:"governorate"`
	// Specialties is a comma separated list.
	Specialties string `json:"specialties"`
}

// Facility validates the draft and fills in the form defaults. The English name and a known type are required.
func (d FacilityDraft) Facility(id string) (Facility, error) {
	nameEN := strings.TrimSpace(d.NameEN)
	if nameEN == "" {
		return Facility{}, errors.Wrap(ErrInvalidFacility, "English name is required")
	}
	if !d.Type.Valid() {
		return Facility{}, errors.Wrap(ErrInvalidFacility, "unknown facility type", slog.String("type", string(d.Type)))
	}

	license := ""
	if d.IsLicensed {
		license = orDefault(d.LicenseNumber, pendingLicense)
	}

	specialties := []string{}
	for _, s := range strings.Split(d.Specialties, ",") {
		if s = strings.TrimSpace(s); s != "" {
			specialties = append(specialties, s)
		}
	}

	return Facility{
		ID:            id,
		Name:          Text{EN: nameEN, AR: orDefault(d.NameAR, nameEN)},
		Type:          d.Type,
		Specialties:   specialties,
		Director:      orDefault(d.Director, notAvailable),
		Owner:         orDefault(d.Owner, notAvailable),
		LicenseNumber: license,
		IsLicensed:    d.IsLicensed,
		Address:       strings.TrimSpace(d.Address),
		Governorate:   orDefault(d.Governorate, defaultGovernorate),
		Location:      nil,
	}, nil
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
