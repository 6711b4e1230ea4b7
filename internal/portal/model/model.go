package model

// UserRole enumerates the portal roles. Values are the display strings the
// stored records carry.
type UserRole string

const (
	RoleMasterRoot     UserRole = "Master Root"
	RoleAdmin          UserRole = "Super Admin"
	RoleCEO            UserRole = "CEO"
	RoleProjectManager UserRole = "Project Manager"
	RoleDeveloper      UserRole = "Developer"
	RoleDesigner       UserRole = "Designer"
	RoleAnalyst        UserRole = "Analyst"
	RoleStudent        UserRole = "Estudiante"
)

// ProjectStatus enumerates the project states.
type ProjectStatus string

const (
	StatusPlanning    ProjectStatus = "Planificación"
	StatusDeveloping  ProjectStatus = "En Desarrollo"
	StatusQA          ProjectStatus = "En QA"
	StatusDeployment  ProjectStatus = "Despliegue"
	StatusFinished    ProjectStatus = "Finalizado"
	StatusOngoing     ProjectStatus = "En Curso"
)

// Keyed is implemented by every collection entity; Key returns the unique id
// the local collections and remote tables are keyed by.
type Keyed interface {
	Key() string
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Role              UserRole `json:"role"`
	Email             string   `json:"email"`
	Password          string   `json:"password,omitempty"`
	Avatar            string   `json:"avatar"`
	Skills            []Skill  `json:"skills"`
	Projects          []string `json:"projects"`
	CompletedVideoIDs []string `json:"completedVideoIds,omitempty"`

	// Extra carries fields added through the schema mutator. It is inlined
	// into the JSON encoding so ad-hoc columns survive persistence.
	Extra map[string]any `json:"-"`

	// dropped lists declared fields removed through the schema mutator.
	// MarshalJSON suppresses them so a dropped column does not come back
	// as a zero value on the next serialization.
	dropped []string
}

func (u User) Key() string { return u.ID }

type ProjectLog struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Link   string `json:"link,omitempty"`
}

type Repository struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
	URL   string `json:"url"`
	Type  string `json:"type"` // github, drive, other
}

type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Client         string        `json:"client"`
	ClientContact  string        `json:"encargadoCliente,omitempty"`
	LeadID         string        `json:"leadId"`
	TeamIDs        []string      `json:"teamIds"`
	Status         ProjectStatus `json:"status"`
	IsOngoing      bool          `json:"isOngoing"`
	Report         bool          `json:"report"`
	Deadline       string        `json:"deadline"`
	StartDate      string        `json:"startDate,omitempty"`
	Progress       int           `json:"progress"`
	Description    string        `json:"description"`
	Technologies   []string      `json:"technologies"`
	Year           int           `json:"year"`
	Logs           []ProjectLog  `json:"logs"`
	Repositories   []Repository  `json:"repositories"`

	Extra   map[string]any `json:"-"`
	dropped []string
}

func (p Project) Key() string { return p.ID }

type Gem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`

	Extra   map[string]any `json:"-"`
	dropped []string
}

func (g Gem) Key() string { return g.ID }

type Tool struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	IsLocal bool   `json:"isLocal,omitempty"`

	Extra   map[string]any `json:"-"`
	dropped []string
}

func (t Tool) Key() string { return t.ID }

// UsedID is an append-only audit record of identifiers handed out.
type UsedID struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DateUsed  string `json:"dateUsed"`
	CreatedBy string `json:"createdBy"`
}

func (u UsedID) Key() string { return u.ID }

type TrainingVideo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Duration         string `json:"duration"`
	Type             string `json:"type"` // video, meet
	TranscriptionURL string `json:"transcriptionUrl,omitempty"`
	QuizURL          string `json:"quizUrl,omitempty"`
}

type TrainingModule struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Videos      []TrainingVideo `json:"videos"`
	Order       int             `json:"order"`
}

func (m TrainingModule) Key() string { return m.ID }

// CompanyConfig is the singleton branding configuration.
type CompanyConfig struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// CloudSyncConfig is the singleton gating all remote mirroring. IsActive is
// the single switch; ProxyURL may be empty even when active, which the
// bridge reports as a remote-unavailable error rather than crashing.
type CloudSyncConfig struct {
	ConnectionName string `json:"connectionName"`
	DBName         string `json:"dbName"`
	DBUser         string `json:"dbUser"`
	ProxyURL       string `json:"proxyUrl"`
	Provider       string `json:"provider"` // postgres, mysql
	IsActive       bool   `json:"isActive"`
}
