package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TenderInfoSheet captures the detailed eligibility and commercial terms
// the team executive fills in before approval. One sheet per tender.
type TenderInfoSheet struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"tenderId"`

	TERecommendation  string `gorm:"column:te_recommendation;size:5;not null" json:"teRecommendation"`
	TERejectionReason *int   `gorm:"column:te_rejection_reason" json:"teRejectionReason,omitempty"`
	TERejectionRemark string `gorm:"column:te_rejection_remarks;type:text" json:"teRejectionRemarks,omitempty"`

	ProcessingFeeAmount *float64       `json:"processingFeeAmount,omitempty"`
	ProcessingFeeMode   pq.StringArray `gorm:"type:text[]" json:"processingFeeMode,omitempty"`
	TenderFeeAmount     *float64       `json:"tenderFeeAmount,omitempty"`
	TenderFeeMode       pq.StringArray `gorm:"type:text[]" json:"tenderFeeMode,omitempty"`

	EMDRequired string         `gorm:"column:emd_required;size:10" json:"emdRequired,omitempty"`
	EMDMode     pq.StringArray `gorm:"column:emd_mode;type:text[]" json:"emdMode,omitempty"`

	ReverseAuctionApplicable string `gorm:"size:5" json:"reverseAuctionApplicable,omitempty"`
	PaymentTermsSupply       *int   `json:"paymentTermsSupply,omitempty"`
	PaymentTermsInstallation *int   `json:"paymentTermsInstallation,omitempty"`
	BidValidityDays          *int   `json:"bidValidityDays,omitempty"`
	CommercialEvaluation     string `gorm:"size:50" json:"commercialEvaluation,omitempty"`
	MAFRequired              string `gorm:"column:maf_required;size:30" json:"mafRequired,omitempty"`

	DeliveryTimeSupply                *int `json:"deliveryTimeSupply,omitempty"`
	DeliveryTimeInstallationInclusive bool `json:"deliveryTimeInstallationInclusive"`
	DeliveryTimeInstallationDays      *int `json:"deliveryTimeInstallationDays,omitempty"`

	PBGInFormOf       string   `gorm:"column:pbg_in_form_of;size:20" json:"pbgInFormOf,omitempty"`
	PBGPercentage     *float64 `gorm:"column:pbg_percentage" json:"pbgPercentage,omitempty"`
	PBGDurationMonths *int     `gorm:"column:pbg_duration_months" json:"pbgDurationMonths,omitempty"`

	SDInFormOf                string   `gorm:"column:sd_in_form_of;size:20" json:"sdInFormOf,omitempty"`
	SecurityDepositPercentage *float64 `json:"securityDepositPercentage,omitempty"`
	SDDurationMonths          *int     `gorm:"column:sd_duration_months" json:"sdDurationMonths,omitempty"`

	LDPercentagePerWeek *float64 `gorm:"column:ld_percentage_per_week" json:"ldPercentagePerWeek,omitempty"`
	MaxLDPercentage     *float64 `gorm:"column:max_ld_percentage" json:"maxLdPercentage,omitempty"`

	PhysicalDocsRequired string    `gorm:"size:5" json:"physicalDocsRequired,omitempty"`
	PhysicalDocsDeadline *JSONTime `json:"physicalDocsDeadline,omitempty"`

	TechEligibilityAgeYears *int     `gorm:"column:technical_eligibility_age_years" json:"techEligibilityAgeYears,omitempty"`
	OrderValue1             *float64 `gorm:"column:order_value_1" json:"orderValue1,omitempty"`
	OrderValue2             *float64 `gorm:"column:order_value_2" json:"orderValue2,omitempty"`
	OrderValue3             *float64 `gorm:"column:order_value_3" json:"orderValue3,omitempty"`

	AvgAnnualTurnoverType  string   `gorm:"size:20" json:"avgAnnualTurnoverType,omitempty"`
	AvgAnnualTurnoverValue *float64 `json:"avgAnnualTurnoverValue,omitempty"`

	WorkingCapitalType  string   `gorm:"size:20" json:"workingCapitalType,omitempty"`
	WorkingCapitalValue *float64 `json:"workingCapitalValue,omitempty"`

	SolvencyCertificateType  string   `gorm:"size:20" json:"solvencyCertificateType,omitempty"`
	SolvencyCertificateValue *float64 `json:"solvencyCertificateValue,omitempty"`

	NetWorthType  string   `gorm:"size:20" json:"netWorthType,omitempty"`
	NetWorthValue *float64 `json:"netWorthValue,omitempty"`

	ClientOrganisation string `gorm:"size:255" json:"clientOrganisation,omitempty"`
	CourierAddress     string `gorm:"type:text" json:"courierAddress,omitempty"`

	TEFinalRemark string `gorm:"column:te_final_remark;type:text" json:"teFinalRemark,omitempty"`

	Clients            []TenderClient            `gorm:"foreignKey:InfoSheetID" json:"clients,omitempty"`
	TechnicalDocuments []TenderTechnicalDocument `gorm:"foreignKey:InfoSheetID" json:"technicalDocuments,omitempty"`
	FinancialDocuments []TenderFinancialDocument `gorm:"foreignKey:InfoSheetID" json:"financialDocuments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TenderClient is a client-side contact person listed on the info sheet.
type TenderClient struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InfoSheetID       uuid.UUID `gorm:"type:uuid;index;not null" json:"infoSheetId"`
	ClientName        string    `gorm:"size:255" json:"clientName"`
	ClientDesignation string    `gorm:"size:255" json:"clientDesignation,omitempty"`
	ClientMobile      string    `gorm:"size:50" json:"clientMobile,omitempty"`
	ClientEmail       string    `gorm:"size:255" json:"clientEmail,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type TenderTechnicalDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InfoSheetID  uuid.UUID `gorm:"type:uuid;index;not null" json:"infoSheetId"`
	DocumentName string    `gorm:"size:255;not null" json:"documentName"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type TenderFinancialDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InfoSheetID  uuid.UUID `gorm:"type:uuid;index;not null" json:"infoSheetId"`
	DocumentName string    `gorm:"size:255;not null" json:"documentName"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
