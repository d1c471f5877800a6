package ai

// SubjectTopics ist der Themenkatalog je Unterrichtsfach. Fächer ohne Eintrag
// können nicht klassifiziert werden.
var SubjectTopics = map[string][]string{
	"SST": {
		"Physical and Human Geography", "Civics and Governance", "History and Heritage",
		"Economic Activities and Development", "Social Systems and Practices", "Environmental Conservation and Management",
	},
	"Mathematics": {
		"Numbers and Numeration", "Basic Operations", "Fractions and Decimals",
		"Measurement", "Geometry and Shapes", "Money and Consumer Math",
		"Statistics and Data Handling", "Algebra and Patterns",
	},
	"Science": {
		"Living Things and Life Processes", "Human Body Systems", "Plants and Animals",
		"Materials and Their Properties", "Energy and Forces", "Earth and Space",
		"Environmental Science", "Health and Safety",
	},
	"English": {
		"Reading Comprehension", "Grammar and Language Structure", "Vocabulary Development",
		"Writing Skills", "Speaking and Listening", "Literature Appreciation",
		"Spelling and Punctuation", "Creative Writing",
	},
	"CRE": {
		"Biblical Stories and Characters", "Christian Values and Morals", "Prayer and Worship",
		"Church History", "Religious Ceremonies and Celebrations", "Christian Living",
		"Biblical Geography", "Faith and Beliefs",
	},
}
