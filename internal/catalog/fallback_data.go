package catalog

// fallbackCatalog is served whenever the remote search fails or returns too few results.
var fallbackCatalog = []fallbackEntry{
	{
		id:      "fallback-1",
		title:   "The Great Gatsby",
		author:  "F. Scott Fitzgerald",
		genre:   "Classic Literature",
		year:    1925,
		isbn:    "9780743273565",
		tags:    []string{"American Literature", "Jazz Age", "Classic"},
		summary: "A masterpiece of American literature set in the Jazz Age, exploring themes of wealth, love, and the American Dream.",
	},
	{
		id:      "fallback-2",
		title:   "To Kill a Mockingbird",
		author:  "Harper Lee",
		genre:   "Classic Literature",
		year:    1960,
		isbn:    "9780061120084",
		tags:    []string{"American Literature", "Social Justice"},
		summary: "A profound tale of moral courage in the American South through Scout Finch's perspective.",
		loan:    &fallbackLoan{borrower: "Sarah Johnson", dueDate: "2024-08-15", borrowedDate: "2024-08-01"},
	},
	{
		id:      "fallback-3",
		title:   "Dune",
		author:  "Frank Herbert",
		genre:   "Science Fiction",
		year:    1965,
		isbn:    "9780441172719",
		tags:    []string{"Space Opera", "Politics", "Ecology"},
		summary: "An epic science fiction saga set on the desert planet Arrakis.",
	},
	{
		id:      "fallback-4",
		title:   "1984",
		author:  "George Orwell",
		genre:   "Dystopian Fiction",
		year:    1949,
		isbn:    "9780452284234",
		tags:    []string{"Dystopian", "Political", "Classic"},
		summary: "A chilling depiction of a totalitarian society under constant surveillance.",
	},
	{
		id:      "fallback-5",
		title:   "Pride and Prejudice",
		author:  "Jane Austen",
		genre:   "Romance",
		year:    1813,
		isbn:    "9780141439518",
		tags:    []string{"Romance", "British Literature", "Classic"},
		summary: "A witty tale of love and society in Regency England.",
	},
	{
		id:      "fallback-6",
		title:   "The Lord of the Rings",
		author:  "J.R.R. Tolkien",
		genre:   "Fantasy",
		year:    1954,
		isbn:    "9780544003415",
		tags:    []string{"Fantasy", "Adventure", "Epic"},
		summary: "The epic fantasy adventure of hobbits, wizards, and the fate of Middle-earth.",
	},
	{
		id:      "fallback-7",
		title:   "Harry Potter and the Philosopher's Stone",
		author:  "J.K. Rowling",
		genre:   "Fantasy",
		year:    1997,
		isbn:    "9780747532699",
		tags:    []string{"Magic", "Young Adult", "Adventure"},
		summary: "A young wizard discovers his magical heritage and begins his journey at Hogwarts.",
		loan:    &fallbackLoan{borrower: "Mike Wilson", dueDate: "2024-08-20", borrowedDate: "2024-08-06"},
	},
	{
		id:      "fallback-8",
		title:   "The Catcher in the Rye",
		author:  "J.D. Salinger",
		genre:   "Coming of Age",
		year:    1951,
		isbn:    "9780316769174",
		tags:    []string{"Coming of Age", "American Literature"},
		summary: "A teenage protagonist's journey through New York City and adolescent alienation.",
	},
	{
		id:      "fallback-9",
		title:   "The Hobbit",
		author:  "J.R.R. Tolkien",
		genre:   "Fantasy",
		year:    1937,
		isbn:    "9780547928227",
		tags:    []string{"Fantasy", "Adventure", "Children"},
		summary: "Bilbo Baggins' unexpected adventure with dwarves and a dragon.",
	},
	{
		id:      "fallback-10",
		title:   "Brave New World",
		author:  "Aldous Huxley",
		genre:   "Science Fiction",
		year:    1932,
		isbn:    "9780060850524",
		tags:    []string{"Dystopian", "Science Fiction", "Social Commentary"},
		summary: "A disturbing vision of a future society obsessed with pleasure and control.",
	},
	{
		id:      "fallback-11",
		title:   "The Chronicles of Narnia",
		author:  "C.S. Lewis",
		genre:   "Fantasy",
		year:    1950,
		isbn:    "9780066238500",
		tags:    []string{"Fantasy", "Children", "Adventure"},
		summary: "Children discover a magical world through an old wardrobe.",
	},
	{
		id:      "fallback-12",
		title:   "Foundation",
		author:  "Isaac Asimov",
		genre:   "Science Fiction",
		year:    1951,
		isbn:    "9780553293357",
		tags:    []string{"Science Fiction", "Space Opera"},
		summary: "A mathematician develops a science to predict the future of human civilization.",
	},
	{
		id:      "fallback-13",
		title:   "The Hitchhiker's Guide to the Galaxy",
		author:  "Douglas Adams",
		genre:   "Science Fiction",
		year:    1979,
		isbn:    "9780345391803",
		tags:    []string{"Humor", "Science Fiction", "Comedy"},
		summary: "A humorous science fiction adventure across the galaxy.",
		loan:    &fallbackLoan{borrower: "Anna Davis", dueDate: "2024-08-25", borrowedDate: "2024-08-11"},
	},
	{
		id:      "fallback-14",
		title:   "Jane Eyre",
		author:  "Charlotte BrontÃ«",
		genre:   "Gothic Romance",
		year:    1847,
		isbn:    "9780142437209",
		tags:    []string{"Gothic", "Romance", "Classic"},
		summary: "An orphaned governess finds love and independence in Victorian England.",
	},
	{
		id:      "fallback-15",
		title:   "Moby Dick",
		author:  "Herman Melville",
		genre:   "Adventure",
		year:    1851,
		isbn:    "9780142437247",
		tags:    []string{"Adventure", "Classic", "Sea"},
		summary: "Captain Ahab's obsessive quest for the white whale.",
	},
	{
		id:      "fallback-16",
		title:   "The Picture of Dorian Gray",
		author:  "Oscar Wilde",
		genre:   "Gothic Fiction",
		year:    1890,
		isbn:    "9780141442464",
		tags:    []string{"Gothic", "Philosophy", "Classic"},
		summary: "A young man's portrait ages while he remains eternally youthful.",
	},
	{
		id:      "fallback-17",
		title:   "Fahrenheit 451",
		author:  "Ray Bradbury",
		genre:   "Science Fiction",
		year:    1953,
		isbn:    "9781451673319",
		tags:    []string{"Dystopian", "Censorship", "Science Fiction"},
		summary: "A fireman burns books in a society where reading is forbidden.",
	},
	{
		id:      "fallback-18",
		title:   "The Handmaid's Tale",
		author:  "Margaret Atwood",
		genre:   "Dystopian Fiction",
		year:    1985,
		isbn:    "9780385490818",
		tags:    []string{"Dystopian", "Feminism", "Science Fiction"},
		summary: "A woman's struggle for survival in a totalitarian theocracy.",
	},
	{
		id:      "fallback-19",
		title:   "The Martian",
		author:  "Andy Weir",
		genre:   "Science Fiction",
		year:    2011,
		isbn:    "9780553418026",
		tags:    []string{"Space", "Survival", "Humor"},
		summary: "An astronaut stranded on Mars uses science and wit to survive.",
	},
	{
		id:      "fallback-20",
		title:   "Gone Girl",
		author:  "Gillian Flynn",
		genre:   "Thriller",
		year:    2012,
		isbn:    "9780307588364",
		tags:    []string{"Thriller", "Mystery", "Psychological"},
		summary: "A marriage goes dangerously wrong when a wife disappears.",
		loan:    &fallbackLoan{borrower: "Tom Brown", dueDate: "2024-08-18", borrowedDate: "2024-08-04"},
	},
	{
		id:      "fallback-21",
		title:   "The Girl with the Dragon Tattoo",
		author:  "Stieg Larsson",
		genre:   "Mystery",
		year:    2005,
		isbn:    "9780307454546",
		tags:    []string{"Mystery", "Crime", "Thriller"},
		summary: "A journalist and hacker investigate a wealthy family's dark secrets.",
	},
	{
		id:      "fallback-22",
		title:   "The Hunger Games",
		author:  "Suzanne Collins",
		genre:   "Young Adult",
		year:    2008,
		isbn:    "9780439023528",
		tags:    []string{"Dystopian", "Young Adult", "Action"},
		summary: "A teenager fights for survival in a deadly televised competition.",
	},
	{
		id:      "fallback-23",
		title:   "Life of Pi",
		author:  "Yann Martel",
		genre:   "Adventure",
		year:    2001,
		isbn:    "9780156027328",
		tags:    []string{"Adventure", "Survival", "Philosophy"},
		summary: "A young man survives 227 days at sea with a Bengal tiger.",
	},
	{
		id:      "fallback-24",
		title:   "The Kite Runner",
		author:  "Khaled Hosseini",
		genre:   "Historical Fiction",
		year:    2003,
		isbn:    "9781594631931",
		tags:    []string{"Historical", "Friendship", "Afghanistan"},
		summary: "A story of friendship, guilt, and redemption set in Afghanistan.",
	},
	{
		id:      "fallback-25",
		title:   "The Book Thief",
		author:  "Markus Zusak",
		genre:   "Historical Fiction",
		year:    2005,
		isbn:    "9780375842207",
		tags:    []string{"Historical", "World War II", "Young Adult"},
		summary: "Death narrates the story of a girl who steals books in Nazi Germany.",
	},
	{
		id:      "fallback-26",
		title:   "The Alchemist",
		author:  "Paulo Coelho",
		genre:   "Philosophy",
		year:    1988,
		isbn:    "9780062315007",
		tags:    []string{"Philosophy", "Adventure", "Inspiration"},
		summary: "A shepherd boy's journey to find his personal legend.",
	},
	{
		id:      "fallback-27",
		title:   "Educated",
		author:  "Tara Westover",
		genre:   "Memoir",
		year:    2018,
		isbn:    "9780399590504",
		tags:    []string{"Memoir", "Education", "Family"},
		summary: "A memoir about education's transformative power despite a survivalist upbringing.",
	},
	{
		id:      "fallback-28",
		title:   "Sapiens",
		author:  "Yuval Noah Harari",
		genre:   "History",
		year:    2011,
		isbn:    "9780062316097",
		tags:    []string{"History", "Anthropology", "Science"},
		summary: "A brief history of humankind from the Stone Age to the present.",
	},
	{
		id:      "fallback-29",
		title:   "Atomic Habits",
		author:  "James Clear",
		genre:   "Self-Help",
		year:    2018,
		isbn:    "9780735211292",
		tags:    []string{"Self-Help", "Psychology", "Productivity"},
		summary: "How tiny changes can make a remarkable difference in your life.",
		loan:    &fallbackLoan{borrower: "Lisa Chen", dueDate: "2024-08-22", borrowedDate: "2024-08-08"},
	},
	{
		id:      "fallback-30",
		title:   "Where the Crawdads Sing",
		author:  "Delia Owens",
		genre:   "Mystery",
		year:    2018,
		isbn:    "9780735219090",
		tags:    []string{"Mystery", "Nature", "Coming of Age"},
		summary: "A mystery about a young woman who raised herself in the marshes.",
	},
	{
		id:      "fallback-31",
		title:   "The Seven Husbands of Evelyn Hugo",
		author:  "Taylor Jenkins Reid",
		genre:   "Historical Fiction",
		year:    2017,
		isbn:    "9781501161933",
		tags:    []string{"Hollywood", "LGBTQ+", "Secrets"},
		summary: "A reclusive Hollywood icon reveals her secrets to an unknown journalist.",
	},
	{
		id:      "fallback-32",
		title:   "Atomic Habits",
		author:  "James Clear",
		genre:   "Self-Help",
		year:    2018,
		isbn:    "9780735211292",
		tags:    []string{"Productivity", "Psychology", "Personal Development"},
		summary: "A guide to building good habits and breaking bad ones.",
	},
	{
		id:      "fallback-33",
		title:   "The Silent Patient",
		author:  "Alex Michaelides",
		genre:   "Psychological Thriller",
		year:    2019,
		isbn:    "9781250301697",
		tags:    []string{"Thriller", "Psychology", "Mystery"},
		summary: "A woman refuses to speak after murdering her husband.",
		loan:    &fallbackLoan{borrower: "David Kim", dueDate: "2024-08-20", borrowedDate: "2024-08-06"},
	},
	{
		id:      "fallback-34",
		title:   "Circe",
		author:  "Madeline Miller",
		genre:   "Mythology",
		year:    2018,
		isbn:    "9780316556347",
		tags:    []string{"Greek Mythology", "Fantasy", "Feminism"},
		summary: "The story of Circe, a goddess of magic in Greek mythology.",
	},
	{
		id:      "fallback-35",
		title:   "The Midnight Library",
		author:  "Matt Haig",
		genre:   "Literary Fiction",
		year:    2020,
		isbn:    "9780525559474",
		tags:    []string{"Philosophy", "Life Choices", "Self-Discovery"},
		summary: "A library between life and death where every book is a different life.",
	},
	{
		id:      "fallback-36",
		title:   "Project Hail Mary",
		author:  "Andy Weir",
		genre:   "Science Fiction",
		year:    2021,
		isbn:    "9780593135204",
		tags:    []string{"Space", "Science", "Humor"},
		summary: "A lone astronaut must save humanity from extinction.",
	},
	{
		id:      "fallback-37",
		title:   "The Song of Achilles",
		author:  "Madeline Miller",
		genre:   "Historical Fiction",
		year:    2011,
		isbn:    "9780062060624",
		tags:    []string{"Greek Mythology", "LGBTQ+", "War"},
		summary: "The love story between Achilles and Patroclus during the Trojan War.",
	},
	{
		id:      "fallback-38",
		title:   "Klara and the Sun",
		author:  "Kazuo Ishiguro",
		genre:   "Literary Fiction",
		year:    2021,
		isbn:    "9780593318171",
		tags:    []string{"AI", "Coming of Age", "Philosophy"},
		summary: "An artificial friend observes and learns about human nature.",
		loan:    &fallbackLoan{borrower: "Maria Rodriguez", dueDate: "2024-08-25", borrowedDate: "2024-08-11"},
	},
	{
		id:      "fallback-39",
		title:   "The Invisible Life of Addie LaRue",
		author:  "V.E. Schwab",
		genre:   "Fantasy",
		year:    2020,
		isbn:    "9780765387561",
		tags:    []string{"Magic", "Immortality", "Memory"},
		summary: "A woman cursed to be forgotten by everyone she meets.",
	},
	{
		id:      "fallback-40",
		title:   "Normal People",
		author:  "Sally Rooney",
		genre:   "Literary Fiction",
		year:    2018,
		isbn:    "9781984822178",
		tags:    []string{"Relationships", "Coming of Age", "Ireland"},
		summary: "The complex relationship between two Irish teenagers.",
	},
	{
		id:      "fallback-41",
		title:   "The Vanishing Half",
		author:  "Brit Bennett",
		genre:   "Literary Fiction",
		year:    2020,
		isbn:    "9780525536291",
		tags:    []string{"Race", "Identity", "Family"},
		summary: "Twin sisters who run away from home and live very different lives.",
	},
	{
		id:      "fallback-42",
		title:   "Such a Fun Age",
		author:  "Kiley Reid",
		genre:   "Contemporary Fiction",
		year:    2019,
		isbn:    "9780525541905",
		tags:    []string{"Race", "Class", "Relationships"},
		summary: "A young babysitter navigates an uncomfortable accusation.",
	},
	{
		id:      "fallback-43",
		title:   "The Guest List",
		author:  "Lucy Foley",
		genre:   "Mystery",
		year:    2020,
		isbn:    "9780062868930",
		tags:    []string{"Wedding", "Secrets", "Island"},
		summary: "A wedding on a remote island goes terribly wrong.",
		loan:    &fallbackLoan{borrower: "James Wilson", dueDate: "2024-08-18", borrowedDate: "2024-08-04"},
	},
	{
		id:      "fallback-44",
		title:   "The Thursday Murder Club",
		author:  "Richard Osman",
		genre:   "Cozy Mystery",
		year:    2020,
		isbn:    "9781984880567",
		tags:    []string{"Elderly", "Murder", "Friendship"},
		summary: "Four retirees meet weekly to investigate cold cases.",
	},
	{
		id:      "fallback-45",
		title:   "The Ten Thousand Doors of January",
		author:  "Alix E. Harrow",
		genre:   "Fantasy",
		year:    2019,
		isbn:    "9780316421997",
		tags:    []string{"Portal Fantasy", "Magic", "Adventure"},
		summary: "A young woman discovers doors to other worlds.",
	},
}
