package questions

var defaultBank = []Question{
	{ID: 1, Text: "Tell us about a project you are proud of and the role you played in it.", ExpectedPoints: []string{"Context", "Personal contribution", "Outcome"}, TimeLimitSeconds: 180},
	{ID: 2, Text: "Describe a difficult problem you solved recently and how you approached it.", ExpectedPoints: []string{"Problem definition", "Approach", "Result", "Lessons learned"}, TimeLimitSeconds: 240},
	{ID: 3, Text: "How do you handle disagreements with teammates?", ExpectedPoints: []string{"Listening", "Compromise", "Escalation", "Example"}, TimeLimitSeconds: 180},
}

// Seed returns the catalogue shipped with the service.
func Seed() Catalog {
	return Catalog{
		DefaultRole: clone(defaultBank),
		"frontend developer": {
			{ID: 1, Text: "Can you explain the difference between let, const, and var in JavaScript?", ExpectedPoints: []string{"Block scoping", "Hoisting", "Reassignment rules", "Temporal dead zone"}, TimeLimitSeconds: 180},
			{ID: 2, Text: "How would you optimize the performance of a React application?", ExpectedPoints: []string{"Code splitting", "Memoization", "Virtual DOM", "Bundle optimization"}, TimeLimitSeconds: 240},
			{ID: 3, Text: "Describe your approach to responsive web design and CSS frameworks.", ExpectedPoints: []string{"Mobile-first", "Flexbox/Grid", "Media queries", "Framework knowledge"}, TimeLimitSeconds: 180},
			{ID: 4, Text: "How do you handle state management in large React applications?", ExpectedPoints: []string{"Redux/Context", "Component state", "State normalization", "Side effects"}, TimeLimitSeconds: 240},
			{ID: 5, Text: "What are your strategies for debugging JavaScript applications?", ExpectedPoints: []string{"Browser tools", "Console methods", "Error handling", "Testing"}, TimeLimitSeconds: 180},
		},
		"backend developer": {
			{ID: 1, Text: "Explain the principles of RESTful API design and best practices.", ExpectedPoints: []string{"HTTP methods", "Status codes", "Resource naming", "Statelessness"}, TimeLimitSeconds: 240},
			{ID: 2, Text: "How do you handle database optimization and query performance?", ExpectedPoints: []string{"Indexing", "Query optimization", "Connection pooling", "Caching"}, TimeLimitSeconds: 240},
			{ID: 3, Text: "Describe your approach to handling authentication and authorization.", ExpectedPoints: []string{"JWT tokens", "OAuth", "Role-based access", "Security best practices"}, TimeLimitSeconds: 240},
			{ID: 4, Text: "How would you design a scalable microservices architecture?", ExpectedPoints: []string{"Service decomposition", "Communication patterns", "Data consistency", "Monitoring"}, TimeLimitSeconds: 300},
			{ID: 5, Text: "What strategies do you use for error handling and logging?", ExpectedPoints: []string{"Error types", "Logging levels", "Monitoring", "Alerting"}, TimeLimitSeconds: 180},
		},
		"data scientist": {
			{ID: 1, Text: "Walk me through your process for handling missing data in a dataset.", ExpectedPoints: []string{"Data exploration", "Imputation methods", "Impact analysis", "Documentation"}, TimeLimitSeconds: 240},
			{ID: 2, Text: "How do you choose between different machine learning algorithms?", ExpectedPoints: []string{"Problem type", "Data characteristics", "Performance metrics", "Validation"}, TimeLimitSeconds: 300},
			{ID: 3, Text: "Explain how you would validate and interpret a predictive model.", ExpectedPoints: []string{"Cross-validation", "Metrics selection", "Feature importance", "Bias detection"}, TimeLimitSeconds: 240},
			{ID: 4, Text: "Describe your approach to feature engineering and selection.", ExpectedPoints: []string{"Domain knowledge", "Statistical methods", "Dimensionality reduction", "Validation"}, TimeLimitSeconds: 240},
			{ID: 5, Text: "How do you communicate technical findings to non-technical stakeholders?", ExpectedPoints: []string{"Visualization", "Storytelling", "Business impact", "Actionable insights"}, TimeLimitSeconds: 240},
		},
		"product manager": {
			{ID: 1, Text: "How do you prioritize features when resources are limited?", ExpectedPoints: []string{"Framework usage", "Stakeholder alignment", "Impact assessment", "Trade-offs"}, TimeLimitSeconds: 240},
			{ID: 2, Text: "Describe your process for gathering and analyzing user requirements.", ExpectedPoints: []string{"User research", "Stakeholder interviews", "Data analysis", "Validation"}, TimeLimitSeconds: 240},
			{ID: 3, Text: "How do you measure product success and iterate based on feedback?", ExpectedPoints: []string{"KPI definition", "Analytics", "User feedback", "Iteration cycles"}, TimeLimitSeconds: 240},
			{ID: 4, Text: "Tell me about a time you had to make a difficult product decision.", ExpectedPoints: []string{"Context setting", "Decision process", "Stakeholder management", "Outcome"}, TimeLimitSeconds: 300},
			{ID: 5, Text: "How do you work with engineering teams to deliver products on time?", ExpectedPoints: []string{"Agile methodology", "Communication", "Scope management", "Risk mitigation"}, TimeLimitSeconds: 240},
		},
		"ux designer": {
			{ID: 1, Text: "Walk me through your design process from research to final design.", ExpectedPoints: []string{"User research", "Ideation", "Prototyping", "Testing", "Iteration"}, TimeLimitSeconds: 300},
			{ID: 2, Text: "How do you conduct user research and what methods do you prefer?", ExpectedPoints: []string{"Research methods", "User interviews", "Usability testing", "Data synthesis"}, TimeLimitSeconds: 240},
			{ID: 3, Text: "Describe how you handle feedback and criticism of your designs.", ExpectedPoints: []string{"Feedback processing", "Iteration", "Stakeholder communication", "Design rationale"}, TimeLimitSeconds: 180},
			{ID: 4, Text: "How do you ensure accessibility in your design work?", ExpectedPoints: []string{"WCAG guidelines", "Inclusive design", "Testing methods", "Universal design"}, TimeLimitSeconds: 240},
			{ID: 5, Text: "Tell me about a challenging design problem you solved recently.", ExpectedPoints: []string{"Problem definition", "Research insights", "Solution approach", "Impact measurement"}, TimeLimitSeconds: 300},
		},
	}
}
