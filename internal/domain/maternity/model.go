package maternity

// Document types accepted by the service and the HTTP surface.
const (
	DocPatientRecord = "patient-record"
	DocLaborRecord   = "labor-record"
	DocNewbornRecord = "newborn-record"
	DocBirthPlan     = "birth-plan"
)

// DocTypes lists every supported document type.
var DocTypes = []string{DocPatientRecord, DocLaborRecord, DocNewbornRecord, DocBirthPlan}

// Optional attributes are pointers: nil means not yet known. Dates are kept
// as entered (2024-01-29, RFC 3339) and rendered by the formatter.

// -- Patient record (prenatal through postpartum) --

type PatientRecord struct {
	CaseNumber          *string           `json:"case_number,omitempty" yaml:"case_number,omitempty"`
	Identity            Identity          `json:"identity" yaml:"identity"`
	PhilHealth          PhilHealth        `json:"philhealth" yaml:"philhealth"`
	Pregnancy           Pregnancy         `json:"pregnancy" yaml:"pregnancy"`
	Risks               RiskCodes         `json:"risks" yaml:"risks"`
	Labs                Labs              `json:"labs" yaml:"labs"`
	TetanusToxoid       []TetanusDose     `json:"tetanus_toxoid,omitempty" yaml:"tetanus_toxoid,omitempty"`
	FirstPrenatalVisit  *PrenatalVisit    `json:"first_prenatal_visit,omitempty" yaml:"first_prenatal_visit,omitempty"`
	PrenatalAssessments []Assessment      `json:"prenatal_assessments,omitempty" yaml:"prenatal_assessments,omitempty"`
	OBHistory           []OBHistoryEntry  `json:"ob_history,omitempty" yaml:"ob_history,omitempty"`
	Delivery            Delivery          `json:"delivery" yaml:"delivery"`
	Postpartum          []PostpartumVisit `json:"postpartum,omitempty" yaml:"postpartum,omitempty"`
}

type Identity struct {
	DateOfRegistration *string `json:"date_of_registration,omitempty" yaml:"date_of_registration,omitempty"`
	FamilySerialNumber *string `json:"family_serial_number,omitempty" yaml:"family_serial_number,omitempty"`
	LastName           *string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	GivenName          *string `json:"given_name,omitempty" yaml:"given_name,omitempty"`
	MiddleName         *string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	CompleteAddress    *string `json:"complete_address,omitempty" yaml:"complete_address,omitempty"`
	Age                *int    `json:"age,omitempty" yaml:"age,omitempty"`
	CivilStatus        *string `json:"civil_status,omitempty" yaml:"civil_status,omitempty"`
	Birthday           *string `json:"birthday,omitempty" yaml:"birthday,omitempty"`
	BirthPlace         *string `json:"birth_place,omitempty" yaml:"birth_place,omitempty"`
	Religion           *string `json:"religion,omitempty" yaml:"religion,omitempty"`
	Occupation         *string `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	ContactNumber      *string `json:"contact_number,omitempty" yaml:"contact_number,omitempty"`
}

type PhilHealth struct {
	Member *bool   `json:"member,omitempty" yaml:"member,omitempty"`
	Number *string `json:"number,omitempty" yaml:"number,omitempty"`
}

type Pregnancy struct {
	BloodType *string `json:"blood_type,omitempty" yaml:"blood_type,omitempty"`
	Menarche  *string `json:"menarche,omitempty" yaml:"menarche,omitempty"`
	HepBTest  *string `json:"hepb_test,omitempty" yaml:"hepb_test,omitempty"`
	LMP       *string `json:"lmp,omitempty" yaml:"lmp,omitempty"`
	EDC       *string `json:"edc,omitempty" yaml:"edc,omitempty"`
	Gravida   *int    `json:"gravida,omitempty" yaml:"gravida,omitempty"`
	Para      *int    `json:"para,omitempty" yaml:"para,omitempty"`
	FullTerm  *int    `json:"full_term,omitempty" yaml:"full_term,omitempty"`
	Preterm   *int    `json:"preterm,omitempty" yaml:"preterm,omitempty"`
	Abortions *int    `json:"abortions,omitempty" yaml:"abortions,omitempty"`
	Living    *int    `json:"living,omitempty" yaml:"living,omitempty"`
}

type RiskCodes struct {
	A RiskCode `json:"a" yaml:"a"`
	B RiskCode `json:"b" yaml:"b"`
	C RiskCode `json:"c" yaml:"c"`
	D RiskCode `json:"d" yaml:"d"`
	E RiskCode `json:"e" yaml:"e"`
}

type RiskCode struct {
	Present *bool   `json:"present,omitempty" yaml:"present,omitempty"`
	Date    *string `json:"date,omitempty" yaml:"date,omitempty"`
}

type Labs struct {
	Ultrasound Ultrasound `json:"ultrasound" yaml:"ultrasound"`
	Urinalysis *string    `json:"urinalysis,omitempty" yaml:"urinalysis,omitempty"`
	CBC        *string    `json:"cbc,omitempty" yaml:"cbc,omitempty"`
}

type Ultrasound struct {
	Date         *string `json:"date,omitempty" yaml:"date,omitempty"`
	AOG          *string `json:"aog,omitempty" yaml:"aog,omitempty"`
	EDC          *string `json:"edc,omitempty" yaml:"edc,omitempty"`
	Presentation *string `json:"presentation,omitempty" yaml:"presentation,omitempty"`
	Remarks      *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

type TetanusDose struct {
	Done *bool   `json:"done,omitempty" yaml:"done,omitempty"`
	Date *string `json:"date,omitempty" yaml:"date,omitempty"`
}

type PrenatalVisit struct {
	Date            *string `json:"date,omitempty" yaml:"date,omitempty"`
	AOG             *string `json:"aog,omitempty" yaml:"aog,omitempty"`
	Trimester       *string `json:"trimester,omitempty" yaml:"trimester,omitempty"`
	BP              *string `json:"bp,omitempty" yaml:"bp,omitempty"`
	Temperature     *string `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	PulseRate       *string `json:"pulse_rate,omitempty" yaml:"pulse_rate,omitempty"`
	RespiratoryRate *string `json:"respiratory_rate,omitempty" yaml:"respiratory_rate,omitempty"`
	Weight          *string `json:"weight,omitempty" yaml:"weight,omitempty"`
	FundicHeight    *string `json:"fundic_height,omitempty" yaml:"fundic_height,omitempty"`
	FetalHeartTone  *string `json:"fetal_heart_tone,omitempty" yaml:"fetal_heart_tone,omitempty"`
	VitaminsTaken   *string `json:"vitamins_taken,omitempty" yaml:"vitamins_taken,omitempty"`
	Remarks         *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

type Assessment struct {
	Date       *string `json:"date,omitempty" yaml:"date,omitempty"`
	Assessment *string `json:"assessment,omitempty" yaml:"assessment,omitempty"`
	Remarks    *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

type OBHistoryEntry struct {
	GravidaYear      *string `json:"gravida_year,omitempty" yaml:"gravida_year,omitempty"`
	FacilityConfined *string `json:"facility_confined,omitempty" yaml:"facility_confined,omitempty"`
	AOG              *string `json:"aog,omitempty" yaml:"aog,omitempty"`
	MannerOfDelivery *string `json:"manner_of_delivery,omitempty" yaml:"manner_of_delivery,omitempty"`
	Presentation     *string `json:"presentation,omitempty" yaml:"presentation,omitempty"`
	Gender           *string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Complications    *string `json:"complications,omitempty" yaml:"complications,omitempty"`
}

type Delivery struct {
	DateTime               *string `json:"date_time,omitempty" yaml:"date_time,omitempty"`
	BabySex                *string `json:"baby_sex,omitempty" yaml:"baby_sex,omitempty"`
	BirthWeightGrams       *int    `json:"birth_weight_grams,omitempty" yaml:"birth_weight_grams,omitempty"`
	ChestCircumference     *string `json:"chest_circumference,omitempty" yaml:"chest_circumference,omitempty"`
	AbdominalCircumference *string `json:"abdominal_circumference,omitempty" yaml:"abdominal_circumference,omitempty"`
	VitaminKGiven          *bool   `json:"vitamin_k_given,omitempty" yaml:"vitamin_k_given,omitempty"`
	HepBGiven              *bool   `json:"hepb_given,omitempty" yaml:"hepb_given,omitempty"`
	CredesGiven            *bool   `json:"credes_given,omitempty" yaml:"credes_given,omitempty"`
}

type PostpartumVisit struct {
	Date                  *string `json:"date,omitempty" yaml:"date,omitempty"`
	BreastFeeding         *bool   `json:"breast_feeding,omitempty" yaml:"breast_feeding,omitempty"`
	Remarks               *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	Supplementation       *string `json:"supplementation,omitempty" yaml:"supplementation,omitempty"`
	NoBreastFeedingReason *string `json:"no_breast_feeding_reason,omitempty" yaml:"no_breast_feeding_reason,omitempty"`
}

// firstVisit returns the first prenatal visit, falling back to the date and
// remarks of the first assessment.
func (p PatientRecord) firstVisit() *PrenatalVisit {
	if p.FirstPrenatalVisit != nil {
		return p.FirstPrenatalVisit
	}
	if len(p.PrenatalAssessments) > 0 {
		a := p.PrenatalAssessments[0]
		return &PrenatalVisit{Date: a.Date, Remarks: a.Remarks}
	}
	return nil
}

// laterAssessments returns the assessments after the first one.
func (p PatientRecord) laterAssessments() []Assessment {
	if len(p.PrenatalAssessments) < 2 {
		return nil
	}
	return p.PrenatalAssessments[1:]
}

// -- Labor and delivery record --

type LaborRecord struct {
	Admission     Admission           `json:"admission" yaml:"admission"`
	History       LaborHistory        `json:"history" yaml:"history"`
	OBHistory     []LaborHistoryEntry `json:"ob_history,omitempty" yaml:"ob_history,omitempty"`
	Labs          LabResults          `json:"labs" yaml:"labs"`
	Physical      Physical            `json:"physical" yaml:"physical"`
	Stages        LaborStages         `json:"stages" yaml:"stages"`
	Delivery      LaborDelivery       `json:"delivery" yaml:"delivery"`
	VitalsMonitor []MonitorReading    `json:"vitals_monitor,omitempty" yaml:"vitals_monitor,omitempty"`
	Staff         Staff               `json:"staff" yaml:"staff"`
}

type Admission struct {
	Date           *string `json:"date,omitempty" yaml:"date,omitempty"`
	Time           *string `json:"time,omitempty" yaml:"time,omitempty"`
	PatientName    *string `json:"patient_name,omitempty" yaml:"patient_name,omitempty"`
	PatientAddress *string `json:"patient_address,omitempty" yaml:"patient_address,omitempty"`
	HusbandName    *string `json:"husband_name,omitempty" yaml:"husband_name,omitempty"`
	CaseNumber     *string `json:"case_number,omitempty" yaml:"case_number,omitempty"`
	DischargeTime  *string `json:"discharge_time,omitempty" yaml:"discharge_time,omitempty"`
}

type LaborHistory struct {
	LMP           *string `json:"lmp,omitempty" yaml:"lmp,omitempty"`
	PhilHealth    *bool   `json:"philhealth,omitempty" yaml:"philhealth,omitempty"`
	NonPhilHealth *bool   `json:"non_philhealth,omitempty" yaml:"non_philhealth,omitempty"`
	AOGWeeks      *string `json:"aog_weeks,omitempty" yaml:"aog_weeks,omitempty"`
	Gravida       *string `json:"gravida,omitempty" yaml:"gravida,omitempty"`
	Para          *string `json:"para,omitempty" yaml:"para,omitempty"`
	Abortion      *string `json:"abortion,omitempty" yaml:"abortion,omitempty"`
	Deaths        *string `json:"deaths,omitempty" yaml:"deaths,omitempty"`
}

type LaborHistoryEntry struct {
	Year    *string `json:"year,omitempty" yaml:"year,omitempty"`
	Place   *string `json:"place,omitempty" yaml:"place,omitempty"`
	AOG     *string `json:"aog,omitempty" yaml:"aog,omitempty"`
	Weight  *string `json:"weight,omitempty" yaml:"weight,omitempty"`
	Manner  *string `json:"manner,omitempty" yaml:"manner,omitempty"`
	Remarks *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

type LabResults struct {
	Ultrasound LabPanel `json:"ultrasound" yaml:"ultrasound"`
	CBC        LabPanel `json:"cbc" yaml:"cbc"`
	Urinalysis LabPanel `json:"urinalysis" yaml:"urinalysis"`
	HepatitisB LabPanel `json:"hepatitis_b" yaml:"hepatitis_b"`
}

// LabPanel holds the normal and abnormal result lines of one laboratory test.
type LabPanel struct {
	Normal    *string `json:"normal,omitempty" yaml:"normal,omitempty"`
	Normal1   *string `json:"normal_1,omitempty" yaml:"normal_1,omitempty"`
	Abnormal  *string `json:"abnormal,omitempty" yaml:"abnormal,omitempty"`
	Abnormal1 *string `json:"abnormal_1,omitempty" yaml:"abnormal_1,omitempty"`
	Abnormal2 *string `json:"abnormal_2,omitempty" yaml:"abnormal_2,omitempty"`
}

type Physical struct {
	BP                *string `json:"bp,omitempty" yaml:"bp,omitempty"`
	PR                *string `json:"pr,omitempty" yaml:"pr,omitempty"`
	RR                *string `json:"rr,omitempty" yaml:"rr,omitempty"`
	Temp              *string `json:"temp,omitempty" yaml:"temp,omitempty"`
	Weight            *string `json:"weight,omitempty" yaml:"weight,omitempty"`
	Height            *string `json:"height,omitempty" yaml:"height,omitempty"`
	FundalHeight      *string `json:"fundal_height,omitempty" yaml:"fundal_height,omitempty"`
	FHT               *string `json:"fht,omitempty" yaml:"fht,omitempty"`
	UC                *string `json:"uc,omitempty" yaml:"uc,omitempty"`
	IEDilatation      *string `json:"ie_dilatation,omitempty" yaml:"ie_dilatation,omitempty"`
	HEENTNormal       *bool   `json:"heent_normal,omitempty" yaml:"heent_normal,omitempty"`
	ChestNormal       *bool   `json:"chest_normal,omitempty" yaml:"chest_normal,omitempty"`
	ExtremitiesNormal *bool   `json:"extremities_normal,omitempty" yaml:"extremities_normal,omitempty"`
	BOWIntact         *bool   `json:"bow_intact,omitempty" yaml:"bow_intact,omitempty"`
	BOWRuptured       *bool   `json:"bow_ruptured,omitempty" yaml:"bow_ruptured,omitempty"`
}

type LaborStages struct {
	Onset    LaborStage `json:"onset" yaml:"onset"`
	Cervix   LaborStage `json:"cervix" yaml:"cervix"`
	Baby     LaborStage `json:"baby" yaml:"baby"`
	Placenta LaborStage `json:"placenta" yaml:"placenta"`
}

type LaborStage struct {
	Time     *string `json:"time,omitempty" yaml:"time,omitempty"`
	Stage    *string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Duration *string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

type LaborDelivery struct {
	PatientName      *string `json:"patient_name,omitempty" yaml:"patient_name,omitempty"`
	CaseNumber       *string `json:"case_number,omitempty" yaml:"case_number,omitempty"`
	PhilHealthID     *string `json:"philhealth_id,omitempty" yaml:"philhealth_id,omitempty"`
	EpisiotomyMedian *bool   `json:"episiotomy_median,omitempty" yaml:"episiotomy_median,omitempty"`
	Awake            *bool   `json:"awake,omitempty" yaml:"awake,omitempty"`
	UterusContracted *bool   `json:"uterus_contracted,omitempty" yaml:"uterus_contracted,omitempty"`
}

type MonitorReading struct {
	Hour *string `json:"hour,omitempty" yaml:"hour,omitempty"`
	BP   *string `json:"bp,omitempty" yaml:"bp,omitempty"`
	PR   *string `json:"pr,omitempty" yaml:"pr,omitempty"`
	RR   *string `json:"rr,omitempty" yaml:"rr,omitempty"`
	Temp *string `json:"temp,omitempty" yaml:"temp,omitempty"`
	FHT  *string `json:"fht,omitempty" yaml:"fht,omitempty"`
}

type Staff struct {
	MidwifeName      *string `json:"midwife_name,omitempty" yaml:"midwife_name,omitempty"`
	NurseName        *string `json:"nurse_name,omitempty" yaml:"nurse_name,omitempty"`
	MonitorStaffName *string `json:"monitor_staff_name,omitempty" yaml:"monitor_staff_name,omitempty"`
}

// -- Newborn record --

type NewbornRecord struct {
	CaseNumber         *string    `json:"case_number,omitempty" yaml:"case_number,omitempty"`
	Name               *string    `json:"name,omitempty" yaml:"name,omitempty"`
	Sex                *string    `json:"sex,omitempty" yaml:"sex,omitempty"`
	DateOfBirth        *string    `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
	Weight             *string    `json:"weight,omitempty" yaml:"weight,omitempty"`
	HeadCircumference  *string    `json:"head_circumference,omitempty" yaml:"head_circumference,omitempty"`
	ChestCircumference *string    `json:"chest_circumference,omitempty" yaml:"chest_circumference,omitempty"`
	Apgar              *string    `json:"apgar,omitempty" yaml:"apgar,omitempty"`
	Length             *string    `json:"length,omitempty" yaml:"length,omitempty"`
	Mother             ParentInfo `json:"mother" yaml:"mother"`
	Father             ParentInfo `json:"father" yaml:"father"`
	Address            *string    `json:"address,omitempty" yaml:"address,omitempty"`
	MidwifeName        *string    `json:"midwife_name,omitempty" yaml:"midwife_name,omitempty"`
	NurseName          *string    `json:"nurse_name,omitempty" yaml:"nurse_name,omitempty"`
}

type ParentInfo struct {
	Name       *string   `json:"name,omitempty" yaml:"name,omitempty"`
	Age        *string   `json:"age,omitempty" yaml:"age,omitempty"`
	Occupation *string   `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	Education  Education `json:"education" yaml:"education"`
}

// Education marks the highest schooling reached.
type Education struct {
	HighSchoolLevel *bool `json:"high_school_level,omitempty" yaml:"high_school_level,omitempty"`
	HighSchoolGrad  *bool `json:"high_school_grad,omitempty" yaml:"high_school_grad,omitempty"`
	CollegeLevel    *bool `json:"college_level,omitempty" yaml:"college_level,omitempty"`
	CollegeGrad     *bool `json:"college_grad,omitempty" yaml:"college_grad,omitempty"`
}

// -- Birth and emergency plan --

type BirthPlanRecord struct {
	HospitalName     *string   `json:"hospital_name,omitempty" yaml:"hospital_name,omitempty"`
	Cost             BirthCost `json:"cost" yaml:"cost"`
	Vehicle          *string   `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
	Transporter      *string   `json:"transporter,omitempty" yaml:"transporter,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty" yaml:"emergency_contact,omitempty"`
	Companion        *string   `json:"companion,omitempty" yaml:"companion,omitempty"`
	ChildWatcher     *string   `json:"child_watcher,omitempty" yaml:"child_watcher,omitempty"`
	Donors           []string  `json:"donors,omitempty" yaml:"donors,omitempty"`
	BabyNameBoy      *string   `json:"baby_name_boy,omitempty" yaml:"baby_name_boy,omitempty"`
	BabyNameGirl     *string   `json:"baby_name_girl,omitempty" yaml:"baby_name_girl,omitempty"`
}

// BirthCost marks the delivery the family is budgeting for.
type BirthCost struct {
	NSD *bool `json:"nsd,omitempty" yaml:"nsd,omitempty"`
	CS  *bool `json:"cs,omitempty" yaml:"cs,omitempty"`
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// not negates a known flag and keeps an unknown one unknown.
func not(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := !*p
	return &v
}
