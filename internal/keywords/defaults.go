package keywords

// Defaults returns the built-in keyword tables. Weights and thresholds are
// empirically tuned starting points; override them with a table file rather
// than editing this list.
func Defaults() *Tables {
	t := &Tables{
		Version: "builtin-1",
		Labels: []Label{
			{
				Name: "computer science",
				Terms: map[string]float64{
					"computer science": 10, "computing": 8, "programming": 8,
					"software engineering": 8, "algorithm": 8, "data structure": 8,
					"artificial intelligence": 10, "machine learning": 10,
					"deep learning": 9, "neural network": 9, "neural networks": 9,
					"natural language processing": 9, "nlp": 8, "computer vision": 9,
					"robotics": 8, "autonomous": 7, "automation": 6,
					"data science": 9, "big data": 7, "data mining": 7, "data analysis": 6,
					"distributed systems": 8, "cloud computing": 7, "database": 7,
					"cybersecurity": 8, "blockchain": 7, "web development": 6,
					"computational": 7, "optimization": 7, "parallel computing": 8,
					"high performance computing": 8, "gpu": 6,
					"programming language": 7, "software development": 7,
					"computer graphics": 8, "virtual reality": 7, "augmented reality": 7,
					"human computer interaction": 8, "hci": 7, "information retrieval": 7,
					"recommendation system": 7,
				},
				Exclusions: []string{
					"biological computing", "bio-computing", "biological network",
					"biological system", "biological data",
				},
				ContextPatterns: []string{
					`\b(computer|computing|software|algorithm|programming)\s+(science|engineering|research|development)`,
					`\b(artificial intelligence|machine learning|deep learning)\s+(research|development|application|workshop)`,
					`\b(data science|data analysis|big data)\s+(project|research|application)`,
				},
				Threshold: 2.5,
			},
			{
				Name: "biology",
				Terms: map[string]float64{
					"biology": 10, "biological": 8, "biochemistry": 9, "biotechnology": 8,
					"molecular biology": 10, "cell biology": 9, "microbiology": 8,
					"genetics": 9, "genomics": 9, "genome": 8, "dna": 8, "rna": 8,
					"biomedical": 8, "pharmaceutical": 7, "drug discovery": 8,
					"immunology": 8, "immunotherapy": 8, "vaccine": 7, "antibody": 7,
					"neuroscience": 9, "neurodegenerative": 8,
					"bioinformatics": 9, "computational biology": 9, "systems biology": 8,
					"protein": 7, "proteomics": 8, "metabolism": 7, "enzyme": 7,
					"evolution": 8, "ecology": 7, "phylogeny": 7, "biodiversity": 7,
					"crispr": 8, "gene editing": 8, "synthetic biology": 8,
					"single-cell": 7, "sequencing": 7, "mass spectrometry": 7,
					"cancer": 7, "oncology": 7, "pathology": 7,
					"infectious disease": 7, "bacteria": 6, "virus": 6, "viral": 6,
					"stem cell": 7, "organism": 6, "tissue": 6,
				},
				Exclusions: []string{
					"computer network", "computer system",
					"artificial neural network", "neural network algorithm",
					"software development", "web development",
				},
				HardExclusions: []string{"computer virus", "malware"},
				ContextPatterns: []string{
					`\b(biology|biological|biochemistry|genetics)\s+(research|study|analysis)`,
					`\b(molecular biology|cell biology|microbiology)\s+(research|study)`,
					`\b(bioinformatics|computational biology)\s+(research|analysis|tool)`,
				},
				Threshold: 2.0,
			},
		},
		Topic: []string{
			"ai", "artificial intelligence", "machine learning", "deep learning",
			"neural network", "computer vision", "nlp", "natural language processing",
			"generative ai", "llm", "large language model", "data science",
			"software engineering", "software development", "programming", "coding",
			"algorithm", "computing", "computer science", "cybersecurity",
			"cloud computing", "devops", "kubernetes", "api", "microservices",
			"robotics", "bioinformatics", "computational biology", "genomics",
			"neuroscience", "biotechnology", "biology", "biochemistry",
		},
		Local: []string{
			"boston", "cambridge", "somerville", "brookline", "newton",
			"watertown", "waltham", "lexington", "arlington", "medford",
			"massachusetts", "greater boston", "boston area",
			"mit", "harvard", "boston university", "northeastern", "tufts",
			"kendall square", "central square", "davis square", "seaport",
			"back bay", "longwood", "allston", "fenway",
		},
		Virtual: []string{
			"virtual", "online", "remote", "webinar", "livestream",
			"live stream", "zoom", "webex", "youtube",
		},
		Preferred: []string{
			"workshop", "webinar", "training", "bootcamp", "tutorial",
			"hands-on", "meetup", "hackathon", "coding challenge",
			"one-day", "one day", "half-day", "developer day", "tech day",
			"coding night", "tech talk", "code review", "pair programming",
			"lightning talk", "brown bag", "office hours", "study group",
		},
		Commercial: []string{
			"ticket price", "registration fee", "early bird", "super early",
			"expo", "exhibition", "sponsor", "3-day", "4-day", "5-day",
			"multi-day conference", "summit", "convention", "venue fee",
		},
		FreeTerms: []string{"free", "complimentary", "no cost", "no charge", "gratis"},
		PaidTerms: []string{"$", "usd", "ticket", "price", "fee", "cost:", "paid"},
		Registration: []string{
			"register", "registration", "rsvp", "sign up", "signup",
			"reserve your spot", "tickets",
		},
		Stopwords: []string{
			"a", "an", "the", "of", "for", "and", "or", "in", "on", "at",
			"to", "with", "by", "from",
			// Generic event nouns: every listing uses them, so they carry no
			// discriminating signal for duplicate detection.
			"seminar", "colloquium", "event", "talk", "series", "session",
			"lecture", "presentation",
		},
	}

	// Built-in patterns are trusted, but compile through the same path the
	// loaded ones use.
	if err := t.compile(); err != nil {
		panic(err)
	}
	return t
}
