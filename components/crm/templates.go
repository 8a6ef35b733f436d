package crm

// Semantic fields a template variable can resolve from.
const (
	FieldName    = "name"
	FieldCountry = "country"
	FieldJobRole = "jobrole"
	FieldSalary  = "salary"
	FieldAppLink = "applink"
)

// SMSTemplate is a DLT-registered SMS template. Content tokens use the
// `{#field#}` form; Variables lists the fields in declaration order.
type SMSTemplate struct {
	SID       string
	Name      string
	Content   string
	Variables []string
}

// WhatsAppVariable binds a numeric token position to a semantic field.
type WhatsAppVariable struct {
	Key   string
	Field string
}

// WhatsAppTemplate is an approved WhatsApp template. Content tokens use the
// `{{n}}` form.
type WhatsAppTemplate struct {
	WID       string
	Name      string
	Content   string
	Variables []WhatsAppVariable
}

var smsTemplates = []SMSTemplate{
	{
		SID:       "33410",
		Name:      "p0 app download Hindi",
		Content:   "Hi {#name#}, aapka abroad job interest update kar rahe hain. Kovon safe & free platform hai. Profile banane ke liye download kare: {#applink#} -Kovon",
		Variables: []string{FieldName, FieldAppLink},
	},
	{
		SID:       "33394",
		Name:      "Context Trust App Install Hindi",
		Content:   "Hi {#name#}, yeh {#country#} mein {#jobrole#} aur salary {#salary#} se upar ke jobs ke baare mein hai. Kovon bilkul free hai aur verified foreign employers ke saath kaam karta hai. App download karke safely jobs dekhiye. {#applink#} -Kovon",
		Variables: []string{FieldName, FieldCountry, FieldJobRole, FieldSalary, FieldAppLink},
	},
	{
		SID:       "33387",
		Name:      "App Open",
		Content:   "Jobs available for {#jobrole#} in {#country#}. Open your Kovon app and apply today. No charges. Login now: {#applink#} -Kovon",
		Variables: []string{FieldJobRole, FieldCountry, FieldAppLink},
	},
	{
		SID:       "33386",
		Name:      "PO APP DOWNLOAD",
		Content:   "Hi {#name#}, aapka abroad job interest update kar rahe hain. Kovon safe & free platform hai. Profile banane ke liye download kare: https://vil.ltd/kovon/c/kjobs -Kovon",
		Variables: []string{FieldName},
	},
	{
		SID:       "33385",
		Name:      "Context + Trust + App Install",
		Content:   "Hi {#name#}, this is regarding {#jobrole#} jobs in {#country#} . Kovon is 100% free with verified overseas employers. Download the app to explore safely. {#applink#} -Kovon",
		Variables: []string{FieldName, FieldJobRole, FieldCountry, FieldAppLink},
	},
	{
		SID:       "33205",
		Name:      "DO Job Search",
		Content:   "Hi {#name#}, Kovon ne aapke skill ke hisaab se abroad jobs shortlist ki hain. Check karo aur free me apply karo: https://www.kovon.io/ -Kovon",
		Variables: []string{FieldName},
	},
}

var whatsAppTemplates = []WhatsAppTemplate{
	{
		WID:     "23781",
		Name:    "explain_next_step_profile_comp",
		Content: "Dear {{1}}, You are now registered on Kovon. To see matching overseas jobs, please add your job role and target country. Takes less than 2 minutes.",
		Variables: []WhatsAppVariable{
			{Key: "1", Field: FieldName},
		},
	},
	{
		WID:     "23780",
		Name:    "unreg_day0_install_msg_media",
		Content: "Hi {{1}} , main aapse {{2}} mein {{3}} ke jobs liye baat karna chah rahi thi. - Kovon par *0* charges - Koi agent nahi - Sirf *verified foreign jobs* hain Yahan se app download karein. Install ke baad DONE reply karein",
		Variables: []WhatsAppVariable{
			{Key: "1", Field: FieldName},
			{Key: "2", Field: FieldCountry},
			{Key: "3", Field: FieldJobRole},
		},
	},
	{
		WID:     "23506",
		Name:    "reg_noapply_day0",
		Content: "Aapki profile {{1}} mein {{2}} jobs ke liye ready hai. Live jobs available hain. App kholkar search karein. Main madad kar sakti hoon.",
		Variables: []WhatsAppVariable{
			{Key: "1", Field: FieldCountry},
			{Key: "2", Field: FieldJobRole},
		},
	},
	{
		WID:     "23503",
		Name:    "unreg_fomo_day4",
		Content: "Aap jaise profile wale candidates ne {{1}} mein {{2}} jobs ke liye Kovon par apply kiya hai. Aap bhi bina paisa diye apply kar sakte hain. 🎊 Abhi install karein, aur future secure karein!🌏",
		Variables: []WhatsAppVariable{
			{Key: "1", Field: FieldCountry},
			{Key: "2", Field: FieldJobRole},
		},
	},
	{
		WID:     "23502",
		Name:    "unreg_day0_install_msg",
		Content: "Hi {{1}} , main aapse {{2}} mein {{3}} ke jobs liye baat karna chah rahi thi. - Kovon par *0* charges - Koi agent nahi - Sirf *verified foreign jobs* hain Yahan se app download karein. Install ke baad DONE reply karein",
		Variables: []WhatsAppVariable{
			{Key: "1", Field: FieldName},
			{Key: "2", Field: FieldCountry},
			{Key: "3", Field: FieldJobRole},
		},
	},
}

// SMSTemplates returns the SMS template catalog.
func SMSTemplates() []SMSTemplate {
	out := make([]SMSTemplate, len(smsTemplates))
	copy(out, smsTemplates)
	return out
}

// WhatsAppTemplates returns the WhatsApp template catalog.
func WhatsAppTemplates() []WhatsAppTemplate {
	out := make([]WhatsAppTemplate, len(whatsAppTemplates))
	copy(out, whatsAppTemplates)
	return out
}

// SMSTemplateByName looks up an SMS template.
func SMSTemplateByName(name string) (SMSTemplate, bool) {
	for _, t := range smsTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return SMSTemplate{}, false
}

// WhatsAppTemplateByName looks up a WhatsApp template.
func WhatsAppTemplateByName(name string) (WhatsAppTemplate, bool) {
	for _, t := range whatsAppTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return WhatsAppTemplate{}, false
}
